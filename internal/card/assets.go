package card

import (
	"io/fs"
	"net/url"
	"os"
	"strings"

	"github.com/conneroisu/projectcard/internal/errors"
)

// AssetResolver turns a local image name into a URL the browser can load.
type AssetResolver interface {
	Resolve(name string) (string, error)
}

// AssetResolverFunc adapts a function to AssetResolver.
type AssetResolverFunc func(name string) (string, error)

// Resolve implements AssetResolver.
func (f AssetResolverFunc) Resolve(name string) (string, error) {
	return f(name)
}

// DirAssets resolves images stored in a directory that is served under
// BaseURL.
type DirAssets struct {
	FS      fs.FS
	BaseURL string
}

// NewDirAssets serves files from dir under baseURL.
func NewDirAssets(dir, baseURL string) *DirAssets {
	return &DirAssets{FS: os.DirFS(dir), BaseURL: baseURL}
}

// Resolve implements AssetResolver. The file must exist and be a regular
// file.
func (a *DirAssets) Resolve(name string) (string, error) {
	if !fs.ValidPath(name) || name == "." {
		return "", errors.NewAssetError(errors.ErrCodeInvalidPath, "invalid asset name "+name, nil)
	}

	info, err := fs.Stat(a.FS, name)
	if err != nil {
		return "", errors.NewAssetError(errors.ErrCodeAssetNotFound, "asset "+name+" not found", err)
	}
	if !info.Mode().IsRegular() {
		return "", errors.NewAssetError(errors.ErrCodeAssetNotFound, "asset "+name+" is not a file", nil)
	}

	segments := strings.Split(name, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.TrimRight(a.BaseURL, "/") + "/" + strings.Join(segments, "/"), nil
}

// ImageSource returns the src for a card image. Values starting with
// "http" are used as is; anything else goes through assets.
func ImageSource(image string, assets AssetResolver) (string, error) {
	if strings.HasPrefix(image, "http") {
		return image, nil
	}
	if assets == nil {
		return "", errors.NewAssetError(errors.ErrCodeAssetNotFound, "no asset resolver for "+image, nil)
	}
	return assets.Resolve(image)
}
