package stats

// Summary describes the shape of a distribution of durations
type Summary struct {
	Count    int     `json:"count"`
	Min      float64 `json:"min"`
	Q1       float64 `json:"q1"`
	Median   float64 `json:"median"`
	Q3       float64 `json:"q3"`
	Max      float64 `json:"max"`
	Mean     float64 `json:"mean"`
	StdDev   float64 `json:"stddev"`
	Outliers int     `json:"outliers"` // outside 1.5 * IQR
}

// Summarize computes the five-number summary plus mean and spread.
// An empty input yields the zero Summary.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}

	sorted := sortedCopy(values)
	s := Summary{
		Count:  len(sorted),
		Min:    sorted[0],
		Q1:     Quantile(sorted, 0.25),
		Median: Median(sorted),
		Q3:     Quantile(sorted, 0.75),
		Max:    sorted[len(sorted)-1],
		Mean:   Mean(sorted),
		StdDev: StdDev(sorted),
	}

	lower, upper := OutlierBounds(s.Q1, s.Q3)
	for _, v := range sorted {
		if v < lower || v > upper {
			s.Outliers++
		}
	}
	return s
}

// OutlierBounds returns the Tukey fences for the given quartiles
func OutlierBounds(q1, q3 float64) (lower, upper float64) {
	iqr := q3 - q1
	return q1 - 1.5*iqr, q3 + 1.5*iqr
}
