package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// manifest loading
	ManInfo           Code = 1000
	ManParseError     Code = 1001
	ManMissingField   Code = 1002
	ManUnknownClass   Code = 1003
	ManDuplicateClass Code = 1004
	ManCycle          Code = 1005

	// instantiation fixpoint
	WldInfo                    Code = 2000
	WldNoRoots                 Code = 2001
	WldUnknownRoot             Code = 2002
	WldAbstractInstantiated    Code = 2003
	WldInterfaceInstantiated   Code = 2004
	WldNeverInstantiated       Code = 2005
	WldInterfaceNotImplemented Code = 2006

	// observability
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var codeDescription = map[Code]string{
	UnknownCode:                "Unknown error",
	ManInfo:                    "Manifest information",
	ManParseError:              "Manifest cannot be parsed",
	ManMissingField:            "Manifest is missing a required field",
	ManUnknownClass:            "Reference to an undeclared class",
	ManDuplicateClass:          "Class declared more than once",
	ManCycle:                   "Cyclic class hierarchy",
	WldInfo:                    "World information",
	WldNoRoots:                 "Program declares no root classes",
	WldUnknownRoot:             "Root class is not declared",
	WldAbstractInstantiated:    "Abstract class is instantiated",
	WldInterfaceInstantiated:   "Interface is instantiated",
	WldNeverInstantiated:       "Class is never instantiated",
	WldInterfaceNotImplemented: "Interface has no instantiated implementor",
	ObsInfo:                    "Observability information",
	ObsTimings:                 "Pipeline timings",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("MAN%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("WLD%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
