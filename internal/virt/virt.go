// Package virt classifies which hypervisor, if any, the process runs under.
// Detection is best-effort and informational only; it never influences
// tuning decisions and never fails.
package virt

// Copyright (C) 2026 Cputune Authors
// SPDX-License-Identifier: BSD-3-Clause

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// State identifies the detected hypervisor.
type State int

const (
	None State = iota
	KVM
	VMWare
	XenPVHVM
)

func (s State) String() string {
	switch s {
	case KVM:
		return "KVM"
	case VMWare:
		return "VMWare"
	case XenPVHVM:
		return "Xen"
	}
	return "none"
}

const (
	productNameFile = "sys/devices/virtual/dmi/id/product_name"
	hypervisorFile  = "sys/hypervisor/type"
)

// Detect inspects the well-known host information sources and returns the
// first positive match. Non-Linux hosts always return None.
func Detect() State {
	if runtime.GOOS != "linux" {
		return None
	}
	return DetectAt("/")
}

// DetectAt is Detect with the filesystem root made explicit for tests. The
// system identity source is consulted first; the hypervisor type source is
// only read when the first yields no match.
func DetectAt(root string) State {
	if state, ok := scanInfoFile(filepath.Join(root, productNameFile), "KVM", KVM, "VMWare", VMWare); ok {
		return state
	}
	if state, ok := scanInfoFile(filepath.Join(root, hypervisorFile), "Xen", XenPVHVM, "", None); ok {
		return state
	}
	return None
}

// scanInfoFile reads path in bounded chunks looking for either token,
// case-insensitive, anywhere in the content. A short overlap window is
// carried between chunks so a token straddling a chunk boundary still
// matches; arbitrarily long lines never abort the scan. A missing file is a
// normal terminal state, not an error.
func scanInfoFile(path, token1 string, state1 State, token2 string, state2 State) (State, bool) {
	f, err := os.Open(path)
	if err != nil {
		return None, false
	}
	defer f.Close()
	t1 := strings.ToLower(token1)
	t2 := strings.ToLower(token2)
	overlap := max(len(t1), len(t2))
	buf := make([]byte, 512)
	var window string
	for {
		n, readErr := f.Read(buf)
		if n > 0 {
			window += strings.ToLower(string(buf[:n]))
			if strings.Contains(window, t1) {
				return state1, true
			}
			if t2 != "" && strings.Contains(window, t2) {
				return state2, true
			}
			if len(window) > overlap {
				window = window[len(window)-overlap+1:]
			}
		}
		if readErr != nil {
			return None, false
		}
	}
}
