//go:build !amd64 && !arm64

package matchfinder

func detectFeaturesImpl() Features {
	return Features{}
}
