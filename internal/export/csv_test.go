package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/commutetrackr-go/internal/analysis/commute"
	"github.com/jengzang/commutetrackr-go/internal/stats"
)

func TestWriteDurations(t *testing.T) {
	var buf bytes.Buffer
	err := WriteDurations(&buf, []commute.DurationRow{
		{Date: "2025-03-03", Series: commute.CycleThere, Duration: 12.5, Activity: commute.Cycling, Direction: commute.Out},
		{Date: "2025-03-03", Series: commute.DoorToDoorReturn, Duration: 240, Activity: commute.DoorToDoor, Direction: commute.Return, Anomaly: commute.AnomalyExcessive},
	})
	require.NoError(t, err)
	assert.Equal(t, "date,series,duration,activity,direction,anomaly\n"+
		"2025-03-03,cycle_there,12.5,cycling,out,\n"+
		"2025-03-03,door_to_door_return,240,door2door,return,excessive\n", buf.String())
}

func TestWriteCalendarLeavesMissingEmpty(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCalendar(&buf, []commute.CalendarDay{
		{Date: "2025-03-03", DoorToDoorOut: commute.Some(75), DoorToDoorReturn: commute.Some(80)},
		{Date: "2025-03-04", DoorToDoorOut: commute.Some(70)},
	})
	require.NoError(t, err)
	assert.Equal(t, "date,door_to_door_out,door_to_door_return\n2025-03-03,75,80\n2025-03-04,70,\n", buf.String())
}

func TestWriteAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	err := WriteAll(dir, Tables{
		Totals: []commute.CategoryTotal{{Activity: commute.Train, Duration: 42}},
		Distributions: []commute.Distribution{{
			Activity: commute.Train, Direction: commute.Out, Durations: []float64{42},
			Summary: stats.Summarize([]float64{42}),
		}},
	})
	require.NoError(t, err)

	for _, name := range []string{DurationsFile, TotalsFile, DistributionsFile, CalendarFile} {
		_, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, name)
	}

	f, err := os.Open(filepath.Join(dir, DistributionsFile))
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"train", "out", "1", "42", "42", "42", "42", "42", "42", "0", "0"}, records[1])
}
