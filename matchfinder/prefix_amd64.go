//go:build amd64

package matchfinder

import "golang.org/x/sys/cpu"

func detectFeaturesImpl() Features {
	return Features{
		HasSSE2:            cpu.X86.HasSSE2,
		HasSSE41:           cpu.X86.HasSSE41,
		HasAVX2:            cpu.X86.HasAVX2,
		FastUnalignedWords: true,
	}
}
