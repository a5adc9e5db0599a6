// Package commute derives per-segment journey durations from daily commute
// logs and reshapes them into the long-form table used for plotting.
package commute

import (
	"errors"
	"fmt"

	"github.com/jengzang/commutetrackr-go/internal/models"
)

// Category is the kind of activity a segment belongs to
type Category string

const (
	Cycling      Category = "cycling"
	Train        Category = "train"
	Tube         Category = "tube"
	Walking      Category = "walking"
	Transferring Category = "transferring"
	DoorToDoor   Category = "door2door"
)

// Direction is the leg of the day a segment belongs to
type Direction string

const (
	Out    Direction = "out"
	Return Direction = "return"
)

// Segment names
const (
	CycleThere                = "cycle_there"
	TransferringToTrainOut    = "transferring_to_train_out"
	TrainOut                  = "train_out"
	TransferringToTubeOut     = "transferring_to_tube_out"
	TubeOut                   = "tube_out"
	WalkingToScaleSpace       = "walking_to_scalespace"
	DoorToDoorOut             = "door_to_door_out"
	WalkingToWoodLane         = "walking_to_woodlane"
	TubeReturn                = "tube_return"
	TransferringToTrainReturn = "transferring_to_train_return"
	TrainReturn               = "train_return"
	WalkToBike                = "walk_to_bike"
	CycleHome                 = "cycle_home"
	DoorToDoorReturn          = "door_to_door_return"

	TransferringOut    = "transferring_out"
	TransferringReturn = "transferring_return"
)

// SegmentDefinition is an interval between two event slots
type SegmentDefinition struct {
	Name      string
	Start     models.Slot
	End       models.Slot
	Category  Category
	Direction Direction
}

// SeriesDefinition is one series of the long-form table. Its value is the sum
// of its parts and only exists when every part exists.
type SeriesDefinition struct {
	Name                 string
	Parts                []string
	Category             Category
	Direction            Direction
	RequiresStraightHome bool
}

// Config holds the segment chain and classification rules used by a Deriver
type Config struct {
	Segments []SegmentDefinition
	Series   []SeriesDefinition

	// A day is straight home when all of these slots are set
	StraightHomeSlots []models.Slot
	// Straight home is revoked when DetourSegment exceeds the threshold
	DetourSegment          string
	DetourThresholdMinutes float64

	// Segments summed into the total commuting time. ReturnTotal only counts
	// on straight-home days.
	OutboundTotal string
	ReturnTotal   string

	// Durations above this are flagged as excessive. Zero disables the check.
	AnomalyCeilingMinutes float64
}

// DefaultDetourThresholdMinutes is the return door-to-door time above which a
// day is no longer counted as going straight home.
const DefaultDetourThresholdMinutes = 180.0

// DefaultConfig returns the bike, train, tube and walk chain between home and
// Scale Space.
func DefaultConfig() Config {
	return Config{
		Segments: []SegmentDefinition{
			{CycleThere, models.LeftHome, models.ArrivedAtStation, Cycling, Out},
			{TransferringToTrainOut, models.ArrivedAtStation, models.BoardedTrainOut, Transferring, Out},
			{TrainOut, models.BoardedTrainOut, models.AlightedTrainOut, Train, Out},
			{TransferringToTubeOut, models.AlightedTrainOut, models.BoardedTubeOut, Transferring, Out},
			{TubeOut, models.BoardedTubeOut, models.AlightedTubeOut, Tube, Out},
			{WalkingToScaleSpace, models.AlightedTubeOut, models.ArrivedAtScaleSpace, Walking, Out},
			{DoorToDoorOut, models.LeftHome, models.ArrivedAtScaleSpace, DoorToDoor, Out},
			{WalkingToWoodLane, models.LeftScaleSpace, models.BoardedTubeReturn, Walking, Return},
			{TubeReturn, models.BoardedTubeReturn, models.AlightedTubeReturn, Tube, Return},
			{TransferringToTrainReturn, models.AlightedTubeReturn, models.BoardedTrainReturn, Transferring, Return},
			{TrainReturn, models.BoardedTrainReturn, models.AlightedTrainReturn, Train, Return},
			{WalkToBike, models.AlightedTrainReturn, models.LeftStation, Transferring, Return},
			{CycleHome, models.LeftStation, models.ArrivedAtHome, Cycling, Return},
			{DoorToDoorReturn, models.LeftScaleSpace, models.ArrivedAtHome, DoorToDoor, Return},
		},
		Series: []SeriesDefinition{
			{Name: CycleThere, Parts: []string{CycleThere}, Category: Cycling, Direction: Out},
			{Name: TrainOut, Parts: []string{TrainOut}, Category: Train, Direction: Out},
			{Name: TubeOut, Parts: []string{TubeOut}, Category: Tube, Direction: Out},
			{Name: WalkingToScaleSpace, Parts: []string{WalkingToScaleSpace}, Category: Walking, Direction: Out},
			{Name: DoorToDoorOut, Parts: []string{DoorToDoorOut}, Category: DoorToDoor, Direction: Out},
			{Name: TransferringOut, Parts: []string{TransferringToTrainOut, TransferringToTubeOut}, Category: Transferring, Direction: Out},
			{Name: WalkingToWoodLane, Parts: []string{WalkingToWoodLane}, Category: Walking, Direction: Return},
			{Name: TubeReturn, Parts: []string{TubeReturn}, Category: Tube, Direction: Return},
			{Name: TrainReturn, Parts: []string{TrainReturn}, Category: Train, Direction: Return},
			{Name: CycleHome, Parts: []string{CycleHome}, Category: Cycling, Direction: Return},
			{Name: DoorToDoorReturn, Parts: []string{DoorToDoorReturn}, Category: DoorToDoor, Direction: Return, RequiresStraightHome: true},
			{Name: TransferringReturn, Parts: []string{TransferringToTrainReturn, WalkToBike}, Category: Transferring, Direction: Return, RequiresStraightHome: true},
		},
		StraightHomeSlots:      []models.Slot{models.BoardedTubeReturn, models.AlightedTubeReturn},
		DetourSegment:          DoorToDoorReturn,
		DetourThresholdMinutes: DefaultDetourThresholdMinutes,
		OutboundTotal:          DoorToDoorOut,
		ReturnTotal:            DoorToDoorReturn,
		AnomalyCeilingMinutes:  DefaultDetourThresholdMinutes,
	}
}

// ErrInvalidConfig is returned by Validate for inconsistent configurations
var ErrInvalidConfig = errors.New("invalid commute config")

// Validate checks that every segment reference resolves and names are unique
func (c Config) Validate() error {
	if len(c.Segments) == 0 {
		return fmt.Errorf("%w: no segments", ErrInvalidConfig)
	}

	known := make(map[string]bool, len(c.Segments))
	for _, s := range c.Segments {
		if s.Name == "" {
			return fmt.Errorf("%w: segment without a name", ErrInvalidConfig)
		}
		if known[s.Name] {
			return fmt.Errorf("%w: duplicate segment %q", ErrInvalidConfig, s.Name)
		}
		if !s.Start.Valid() || !s.End.Valid() {
			return fmt.Errorf("%w: segment %q has an unknown slot", ErrInvalidConfig, s.Name)
		}
		known[s.Name] = true
	}

	series := make(map[string]bool, len(c.Series))
	for _, s := range c.Series {
		if series[s.Name] {
			return fmt.Errorf("%w: duplicate series %q", ErrInvalidConfig, s.Name)
		}
		series[s.Name] = true
		if len(s.Parts) == 0 {
			return fmt.Errorf("%w: series %q has no parts", ErrInvalidConfig, s.Name)
		}
		for _, p := range s.Parts {
			if !known[p] {
				return fmt.Errorf("%w: series %q references unknown segment %q", ErrInvalidConfig, s.Name, p)
			}
		}
	}

	for _, name := range []string{c.DetourSegment, c.OutboundTotal, c.ReturnTotal} {
		if name != "" && !known[name] {
			return fmt.Errorf("%w: unknown segment %q", ErrInvalidConfig, name)
		}
	}
	for _, slot := range c.StraightHomeSlots {
		if !slot.Valid() {
			return fmt.Errorf("%w: unknown straight-home slot %d", ErrInvalidConfig, int(slot))
		}
	}
	if c.DetourThresholdMinutes < 0 || c.AnomalyCeilingMinutes < 0 {
		return fmt.Errorf("%w: negative threshold", ErrInvalidConfig)
	}
	return nil
}
