package domain

import (
	"encoding/json"
	"errors"
	"strings"
)

// ImageKind tags which variant an ImageRef holds.
type ImageKind int

const (
	ImageNone ImageKind = iota
	ImageDirect
	ImageAsset
)

// ImageRef is either a direct URL/path or a reference to an asset held by the
// image backend. Use DirectImage or AssetImage to build one.
type ImageRef struct {
	Kind  ImageKind
	Value string
}

func DirectImage(url string) ImageRef {
	url = strings.TrimSpace(url)
	if url == "" {
		return ImageRef{}
	}
	return ImageRef{Kind: ImageDirect, Value: url}
}

func AssetImage(ref string) ImageRef {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ImageRef{}
	}
	return ImageRef{Kind: ImageAsset, Value: ref}
}

func (r ImageRef) IsZero() bool {
	return r.Kind == ImageNone || r.Value == ""
}

type assetJSON struct {
	Asset struct {
		Ref    string `json:"_ref,omitempty"`
		AltRef string `json:"ref,omitempty"`
	} `json:"asset"`
}

// MarshalJSON writes direct images as plain strings and assets as
// {"asset":{"_ref":...}}.
func (r ImageRef) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case ImageDirect:
		return json.Marshal(r.Value)
	case ImageAsset:
		var out assetJSON
		out.Asset.Ref = r.Value
		return json.Marshal(out)
	default:
		return []byte("null"), nil
	}
}

func (r *ImageRef) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		*r = ImageRef{}
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = DirectImage(s)
		return nil
	}
	var in assetJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	ref := in.Asset.Ref
	if ref == "" {
		ref = in.Asset.AltRef
	}
	if ref == "" {
		return errors.New("image: asset reference missing")
	}
	*r = AssetImage(ref)
	return nil
}
