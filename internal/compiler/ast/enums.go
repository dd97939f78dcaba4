package ast

import "fmt"

// Unit is the suffix of a UnitExpr.
type Unit int

const (
	UnitPercent Unit = iota
	UnitMs
	UnitCm
	UnitDeg
	UnitHz
	UnitDegPerSec
)

var unitNames = [...]string{
	UnitPercent:   "Percent",
	UnitMs:        "ms",
	UnitCm:        "cm",
	UnitDeg:       "deg",
	UnitHz:        "Hz",
	UnitDegPerSec: "deg/s",
}

func (u Unit) String() string {
	if u >= 0 && int(u) < len(unitNames) {
		return unitNames[u]
	}
	return fmt.Sprintf("Unit(%d)", int(u))
}

// Priority of a schedule. The zero value is not a valid priority; the parser
// fills in PriorityMedium when none is written.
type Priority int

const (
	PriorityLow Priority = iota + 1
	PriorityMedium
	PriorityHigh
)

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "LOW"
	case PriorityMedium:
		return "MEDIUM"
	case PriorityHigh:
		return "HIGH"
	}
	return fmt.Sprintf("Priority(%d)", int(p))
}

type PinMode int

const (
	PinInput PinMode = iota
	PinOutput
	PinInputPullup
	PinInputPulldown
)

func (m PinMode) String() string {
	switch m {
	case PinInput:
		return "Input"
	case PinOutput:
		return "Output"
	case PinInputPullup:
		return "InputPullup"
	case PinInputPulldown:
		return "InputPulldown"
	}
	return fmt.Sprintf("PinMode(%d)", int(m))
}

type BusKind int

const (
	BusI2C BusKind = iota
	BusSPI
	BusCAN
	BusUART
)

func (b BusKind) String() string {
	switch b {
	case BusI2C:
		return "I2C"
	case BusSPI:
		return "SPI"
	case BusCAN:
		return "CAN"
	case BusUART:
		return "UART"
	}
	return fmt.Sprintf("BusKind(%d)", int(b))
}

// Trigger is the event source kind of a when block.
type Trigger int

const (
	TriggerMessage Trigger = iota
	TriggerGPIO
)

func (t Trigger) String() string {
	switch t {
	case TriggerMessage:
		return "message"
	case TriggerGPIO:
		return "gpio"
	}
	return fmt.Sprintf("Trigger(%d)", int(t))
}
