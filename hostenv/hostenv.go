// Package hostenv picks a default NCPU for a simulated Kernel by asking the
// real host, the way the donor host package answers "how many processors
// does this machine have" for its own reporting.
package hostenv

import (
	"bufio"
	"log"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
)

const (
	// DefaultProcRoot is where /proc is normally mounted.
	DefaultProcRoot = "/proc"
	cpuInfoFilePath = "cpuinfo"
)

// Info summarises the host a Kernel is about to run on.
type Info struct {
	Arch     string
	CPUCount int
}

// Probe gathers Info from the live host. Any failure to read /proc/cpuinfo
// is logged and treated as "unknown CPU count"; callers should fall back to
// a sane default (kernel.DefaultNPROC's sibling is a single CPU) rather than
// fail startup over a missing /proc.
func Probe() Info {
	return Info{
		Arch:     arch(),
		CPUCount: cpuCount(DefaultProcRoot),
	}
}

// NCPU returns at least 1, so it is always safe to hand straight to
// kernel.Config.NCPU without an extra zero-check.
func (i Info) NCPU() int {
	if i.CPUCount < 1 {
		return 1
	}
	return i.CPUCount
}

// cpuCount counts "processor" lines in /proc/cpuinfo, exactly as the donor's
// getCPUInfo did for its own host-reporting feature.
func cpuCount(procRoot string) int {
	path := filepath.Join(procRoot, cpuInfoFilePath)
	f, err := os.Open(path)
	if err != nil {
		log.Printf("hostenv: failed reading %s: %v", path, err)
		return 0
	}
	defer f.Close()

	count := 0
	scanner := bufio.NewScanner(bufio.NewReader(f))
	for scanner.Scan() {
		kv := strings.SplitN(scanner.Text(), ":", 2)
		if len(kv) != 2 {
			continue
		}
		if strings.TrimSpace(kv[0]) == "processor" {
			count++
		}
	}
	return count
}

// arch calls the equivalent of uname -m, matching the donor's getArch.
func arch() string {
	var utsname unix.Utsname
	if err := unix.Uname(&utsname); err != nil {
		return "unknown"
	}
	return strings.TrimRight(string(utsname.Machine[:]), "\x00")
}
