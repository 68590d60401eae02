package parser

import (
	"strconv"
	"strings"
)

// OASVersion represents each canonical version of the OpenAPI Specification
// that may be found at: https://github.com/OAI/OpenAPI-Specification/releases
type OASVersion int

const (
	// Unknown represents an unknown or invalid OAS version
	Unknown OASVersion = iota
	// OASVersion20 OpenAPI Specification Version 2.0 (Swagger)
	OASVersion20
	// OASVersion300 OpenAPI Specification Version 3.0.0
	OASVersion300
	// OASVersion301 OpenAPI Specification Version 3.0.1
	OASVersion301
	// OASVersion302 OpenAPI Specification Version 3.0.2
	OASVersion302
	// OASVersion303 OpenAPI Specification Version 3.0.3
	OASVersion303
	// OASVersion304 OpenAPI Specification Version 3.0.4
	OASVersion304
	// OASVersion310 OpenAPI Specification Version 3.1.0
	OASVersion310
	// OASVersion311 OpenAPI Specification Version 3.1.1
	OASVersion311
	// OASVersion312 OpenAPI Specification Version 3.1.2
	OASVersion312
	// OASVersion320 OpenAPI Specification Version 3.2.0
	OASVersion320
)

var versionToString = map[OASVersion]string{
	OASVersion20:  "2.0",
	OASVersion300: "3.0.0",
	OASVersion301: "3.0.1",
	OASVersion302: "3.0.2",
	OASVersion303: "3.0.3",
	OASVersion304: "3.0.4",
	OASVersion310: "3.1.0",
	OASVersion311: "3.1.1",
	OASVersion312: "3.1.2",
	OASVersion320: "3.2.0",
}

var stringToVersion = func() map[string]OASVersion {
	m := make(map[string]OASVersion, len(versionToString))
	for k, v := range versionToString {
		m[v] = k
	}
	return m
}()

func (v OASVersion) String() string {
	if s, ok := versionToString[v]; ok {
		return s
	}
	return "unknown"
}

// IsValid returns true if this is a valid version
func (v OASVersion) IsValid() bool {
	_, ok := versionToString[v]
	return ok
}

// ParseVersion maps a declared version string to the closest known
// OASVersion, and returns false if the string is not recognizable.
//
// Beyond exact matches, future patch versions map to the latest known patch
// in their major.minor series ("3.1.9" maps to 3.1.2), and pre-release
// suffixes are ignored ("3.1.0-rc1" maps to 3.1.0). This keeps the parser
// usable on documents newer than this package.
func ParseVersion(s string) (OASVersion, bool) {
	if v, ok := stringToVersion[s]; ok {
		return v, true
	}

	major, minor, patch, ok := splitVersion(s)
	if !ok {
		return Unknown, false
	}

	if major == 2 {
		if minor == 0 {
			return OASVersion20, true
		}
		return Unknown, false
	}
	if major != 3 {
		return Unknown, false
	}

	// Scan the known versions for the highest patch in this series that
	// does not exceed the requested one; if the request is beyond every
	// known patch, take the series maximum.
	best := Unknown
	bestPatch := -1
	maxInSeries := Unknown
	maxPatch := -1
	for ver, str := range versionToString {
		vMajor, vMinor, vPatch, vok := splitVersion(str)
		if !vok || vMajor != major || vMinor != minor {
			continue
		}
		if vPatch > maxPatch {
			maxPatch = vPatch
			maxInSeries = ver
		}
		if vPatch <= patch && vPatch > bestPatch {
			bestPatch = vPatch
			best = ver
		}
	}
	if best != Unknown {
		return best, true
	}
	if patch > maxPatch && maxInSeries != Unknown {
		return maxInSeries, true
	}
	return Unknown, false
}

// splitVersion parses "major.minor[.patch][-prerelease]" into numeric parts.
// A missing patch is treated as zero.
func splitVersion(s string) (major, minor, patch int, ok bool) {
	if idx := strings.IndexAny(s, "-+"); idx != -1 {
		s = s[:idx]
	}
	parts := strings.Split(s, ".")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, 0, 0, false
	}

	var err error
	if major, err = strconv.Atoi(parts[0]); err != nil || major < 0 {
		return 0, 0, 0, false
	}
	if minor, err = strconv.Atoi(parts[1]); err != nil || minor < 0 {
		return 0, 0, 0, false
	}
	if len(parts) == 3 {
		if patch, err = strconv.Atoi(parts[2]); err != nil || patch < 0 {
			return 0, 0, 0, false
		}
	}
	return major, minor, patch, true
}
