//go:build arm64

package matchfinder

import "golang.org/x/sys/cpu"

func detectFeaturesImpl() Features {
	return Features{
		HasNEON:            cpu.ARM64.HasASIMD,
		FastUnalignedWords: true,
	}
}
