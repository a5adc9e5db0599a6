package commute

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/commutetrackr-go/internal/models"
)

func newTestDeriver(t *testing.T) *Deriver {
	t.Helper()
	d, err := NewDeriver(DefaultConfig())
	require.NoError(t, err)
	return d
}

func record(date string, events map[models.Slot]string) models.CommuteLog {
	rec := models.NewCommuteLog(date)
	for s, v := range events {
		rec.Set(s, v)
	}
	return *rec
}

// fullDay is a complete commute: 75 minutes out, 80 minutes back.
func fullDay(date string) models.CommuteLog {
	return record(date, map[models.Slot]string{
		models.LeftHome:            "07:30:00",
		models.ArrivedAtStation:    "07:42:00",
		models.BoardedTrainOut:     "07:50:00",
		models.AlightedTrainOut:    "08:20:00",
		models.BoardedTubeOut:      "08:26:00",
		models.AlightedTubeOut:     "08:36:00",
		models.ArrivedAtScaleSpace: "08:45:00",
		models.LeftScaleSpace:      "17:30:00",
		models.BoardedTubeReturn:   "17:40:00",
		models.AlightedTubeReturn:  "17:52:00",
		models.BoardedTrainReturn:  "18:01:00",
		models.AlightedTrainReturn: "18:30:00",
		models.LeftStation:         "18:35:00",
		models.ArrivedAtHome:       "18:50:00",
	})
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Len(t, cfg.Segments, 14)
	assert.Len(t, cfg.Series, 12)
}

func TestValidateRejectsUnknownSeriesPart(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Series = append(cfg.Series, SeriesDefinition{Name: "bogus", Parts: []string{"nope"}})

	_, err := NewDeriver(cfg)
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestValidateRejectsDuplicateSegment(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Segments = append(cfg.Segments, cfg.Segments[0])

	require.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
}

func TestDeriveAllNullDay(t *testing.T) {
	d := newTestDeriver(t)

	day, slotErrs, err := d.DeriveDay(&models.CommuteLog{Date: "2025-03-03"})
	require.Nil(t, err)
	require.Empty(t, slotErrs)

	assert.False(t, day.StraightHome)
	require.Len(t, day.Segments, 14)
	for name, m := range day.Segments {
		assert.False(t, m.Valid, "segment %s should be absent", name)
	}
	for _, s := range DefaultConfig().Series {
		assert.False(t, d.SeriesValue(day, s).Valid, "series %s should be absent", s.Name)
	}
	assert.Empty(t, d.Reshape([]DerivedDay{day}))
}

func TestCycleThereExactMinutes(t *testing.T) {
	d := newTestDeriver(t)

	day, _, err := d.DeriveDay(&models.CommuteLog{
		Date: "2025-03-03",
		Events: map[models.Slot]string{
			models.LeftHome:         "08:00:00",
			models.ArrivedAtStation: "08:12:30",
		},
	})
	require.Nil(t, err)

	got := day.Segment(CycleThere)
	require.True(t, got.Valid)
	assert.Equal(t, 12.5, got.Value)
	assert.False(t, day.Segment(TrainOut).Valid)
}

func TestEmptyStringIsUnset(t *testing.T) {
	d := newTestDeriver(t)

	day, slotErrs, err := d.DeriveDay(&models.CommuteLog{
		Date: "2025-03-03",
		Events: map[models.Slot]string{
			models.LeftHome:         "",
			models.ArrivedAtStation: "08:12:30",
		},
	})
	require.Nil(t, err)
	assert.Empty(t, slotErrs)
	_, ok := day.Instant(models.LeftHome)
	assert.False(t, ok)
	assert.False(t, day.Segment(CycleThere).Valid)
}

func TestFullDaySegments(t *testing.T) {
	d := newTestDeriver(t)
	rec := fullDay("2025-03-04")

	day, slotErrs, err := d.DeriveDay(&rec)
	require.Nil(t, err)
	require.Empty(t, slotErrs)

	want := map[string]float64{
		CycleThere:                12,
		TransferringToTrainOut:    8,
		TrainOut:                  30,
		TransferringToTubeOut:     6,
		TubeOut:                   10,
		WalkingToScaleSpace:       9,
		DoorToDoorOut:             75,
		WalkingToWoodLane:         10,
		TubeReturn:                12,
		TransferringToTrainReturn: 9,
		TrainReturn:               29,
		WalkToBike:                5,
		CycleHome:                 15,
		DoorToDoorReturn:          80,
	}
	for name, v := range want {
		m := day.Segment(name)
		require.True(t, m.Valid, name)
		assert.InDelta(t, v, m.Value, 1e-9, name)
	}
	assert.True(t, day.StraightHome)

	cfg := d.Config()
	assert.Equal(t, Some(14), d.SeriesValue(day, cfg.Series[5]))  // transferring_out
	assert.Equal(t, Some(14), d.SeriesValue(day, cfg.Series[11])) // transferring_return
}

func TestStraightHomeRequiresBothTubeReturnSlots(t *testing.T) {
	d := newTestDeriver(t)

	rec := record("2025-03-05", map[models.Slot]string{
		models.LeftScaleSpace:    "17:30:00",
		models.BoardedTubeReturn: "17:40:00",
		models.ArrivedAtHome:     "18:50:00",
	})
	day, _, err := d.DeriveDay(&rec)
	require.Nil(t, err)
	assert.False(t, day.StraightHome)

	rec.Set(models.AlightedTubeReturn, "17:52:00")
	day, _, err = d.DeriveDay(&rec)
	require.Nil(t, err)
	assert.True(t, day.StraightHome)
}

func TestDetourRevokesStraightHome(t *testing.T) {
	d := newTestDeriver(t)

	rec := fullDay("2025-03-06")
	rec.Set(models.ArrivedAtHome, "20:30:01") // 180.0167 minutes after leaving

	day, _, err := d.DeriveDay(&rec)
	require.Nil(t, err)
	assert.Greater(t, day.Segment(DoorToDoorReturn).Value, 180.0)
	assert.False(t, day.StraightHome)

	rec.Set(models.ArrivedAtHome, "20:30:00") // exactly 180 is still straight home
	day, _, err = d.DeriveDay(&rec)
	require.Nil(t, err)
	assert.True(t, day.StraightHome)
}

func TestDetourThresholdIsConfigurable(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DetourThresholdMinutes = 60
	d, err := NewDeriver(cfg)
	require.NoError(t, err)

	rec := fullDay("2025-03-06")
	day, _, rerr := d.DeriveDay(&rec)
	require.Nil(t, rerr)
	assert.False(t, day.StraightHome)
}

func TestNegativeDurationPassesThrough(t *testing.T) {
	d := newTestDeriver(t)

	rec := record("2025-03-07", map[models.Slot]string{
		models.BoardedTrainOut:  "08:30:00",
		models.AlightedTrainOut: "08:00:00",
	})
	res := d.Derive([]models.CommuteLog{rec})
	require.Len(t, res.Days, 1)
	assert.Equal(t, Some(-30), res.Days[0].Segment(TrainOut))

	rows := d.Reshape(res.Days)
	require.Len(t, rows, 1)
	assert.Equal(t, -30.0, rows[0].Duration)
	assert.Equal(t, AnomalyNegative, rows[0].Anomaly)
}

func TestMalformedTimeIsReportedNotFatal(t *testing.T) {
	d := newTestDeriver(t)

	bad := record("2025-03-08", map[models.Slot]string{
		models.LeftHome:         "8 o'clock",
		models.ArrivedAtStation: "08:12:00",
		models.BoardedTrainOut:  "08:20:00",
	})
	records := []models.CommuteLog{bad, fullDay("2025-03-09")}

	res := d.Derive(records)
	require.Len(t, res.Days, 2)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "left_home", res.Errors[0].Slot)
	assert.Equal(t, "2025-03-08", res.Errors[0].Date)

	assert.False(t, res.Days[0].Segment(CycleThere).Valid)
	assert.Equal(t, Some(8), res.Days[0].Segment(TransferringToTrainOut))
	assert.True(t, res.Days[1].Segment(DoorToDoorOut).Valid)
}

func TestMalformedDateSkipsRecord(t *testing.T) {
	d := newTestDeriver(t)

	res := d.Derive([]models.CommuteLog{record("03/08/2025", nil), fullDay("2025-03-09")})
	require.Len(t, res.Days, 1)
	require.Len(t, res.Errors, 1)
	assert.Empty(t, res.Errors[0].Slot)

	var target *RecordError
	assert.True(t, errors.As(error(res.Errors[0]), &target))
}

func TestShortTimeLayoutAccepted(t *testing.T) {
	d := newTestDeriver(t)

	rec := record("2025-03-10", map[models.Slot]string{
		models.LeftHome:         "08:00",
		models.ArrivedAtStation: "08:12:30",
	})
	day, slotErrs, err := d.DeriveDay(&rec)
	require.Nil(t, err)
	require.Empty(t, slotErrs)
	assert.Equal(t, Some(12.5), day.Segment(CycleThere))

	at, ok := day.Instant(models.LeftHome)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC), at)
}

func TestMinutesJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		A Minutes `json:"a"`
		B Minutes `json:"b"`
	}{A: Some(12.5)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":12.5,"b":null}`, string(b))
}
