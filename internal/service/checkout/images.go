package checkout

import (
	"net/url"
	"strings"

	"grocery-storefront/internal/domain"
)

const assetPrefix = "image-"

var assetExtensions = map[string]string{
	"jpg":  "jpg",
	"jpeg": "jpg",
	"png":  "png",
	"webp": "webp",
	"gif":  "gif",
	"svg":  "svg",
}

// ImageResolver turns an ImageRef into an absolute URL the payment provider
// can fetch. Anything it cannot normalize resolves to "".
type ImageResolver struct {
	cdnBase string
	siteURL *url.URL
}

// NewImageResolver takes the CDN base that asset ids live under (e.g.
// https://cdn.sanity.io/images/<project>/<dataset>) and the public site URL
// used to absolutize relative paths. Either may be empty.
func NewImageResolver(cdnBase, siteURL string) *ImageResolver {
	r := &ImageResolver{cdnBase: strings.TrimRight(strings.TrimSpace(cdnBase), "/")}
	if u, err := url.Parse(strings.TrimSpace(siteURL)); err == nil && isWebURL(u) {
		r.siteURL = u
	}
	return r
}

func (r *ImageResolver) Resolve(ref domain.ImageRef) string {
	switch ref.Kind {
	case domain.ImageDirect:
		return r.direct(ref.Value)
	case domain.ImageAsset:
		return r.asset(ref.Value)
	default:
		return ""
	}
}

// URLs returns the resolved image as a zero or one element list.
func (r *ImageResolver) URLs(ref domain.ImageRef) []string {
	if u := r.Resolve(ref); u != "" {
		return []string{u}
	}
	return nil
}

func (r *ImageResolver) direct(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if u.IsAbs() {
		if !isWebURL(u) {
			return ""
		}
		return u.String()
	}
	if r.siteURL == nil || !strings.HasPrefix(u.Path, "/") {
		return ""
	}
	return r.siteURL.ResolveReference(u).String()
}

// asset maps "image-<id>-<WxH>-<ext>" to "<cdn>/<id>-<WxH>.<ext>".
func (r *ImageResolver) asset(ref string) string {
	if r.cdnBase == "" || !strings.HasPrefix(ref, assetPrefix) {
		return ""
	}
	body := strings.TrimPrefix(ref, assetPrefix)
	cut := strings.LastIndex(body, "-")
	if cut <= 0 || cut == len(body)-1 {
		return ""
	}
	ext, ok := assetExtensions[strings.ToLower(body[cut+1:])]
	if !ok {
		return ""
	}
	return r.cdnBase + "/" + body[:cut] + "." + ext
}

func isWebURL(u *url.URL) bool {
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
