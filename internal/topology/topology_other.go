//go:build !linux

package topology

func allowedCPUs() []int {
	return fallbackCPUs()
}
