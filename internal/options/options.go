// Package options contains the program options.
package options

// Frontend names.
const (
	FrontendWindow   = "window"
	FrontendTerminal = "terminal"
	FrontendHeadless = "headless"
)

// Frontends lists all supported frontends.
var Frontends = []string{FrontendWindow, FrontendTerminal, FrontendHeadless}

// Parameters contains file path options.
type Parameters struct {
	Input string // ROM file to run
}

// Flags contains behavior options.
type Flags struct {
	Frontend      string
	Debug         bool
	Quiet         bool
	Trace         bool // log every executed instruction
	List          bool // print an assembly listing instead of running
	ExclusiveRegs bool // Fx55/Fx65 transfer V0 to Vx-1 only
}

// Timing contains the pacing of the virtual machine.
type Timing struct {
	TicksPerSecond int
	CyclesPerTick  int
}

// Output contains the presentation options of the frontends.
type Output struct {
	Scale int     // window pixels per display pixel
	Tone  float64 // beeper frequency in Hz, 0 disables audio
	Ticks int     // number of ticks to run in headless mode
}

// ListingFlags contains the formatting options of the assembly listing.
type ListingFlags struct {
	NoHexComments bool
	NoOffsets     bool
}

// Program options of the emulator.
type Program struct {
	Parameters
	Flags
	Timing
	Output
	ListingFlags
}
