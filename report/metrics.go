package report

import "errors"

var ErrNotEnoughSamples = errors.New("at least two samples are needed to compute metrics")

// Month over month indicators of a count series, lower is better
type Metric struct {
	Current      int `json:"current"`       // Latest value
	Delta        int `json:"delta"`         // Latest minus previous value
	Average      int `json:"average"`       // Average of the whole series
	AverageDelta int `json:"average_delta"` // Average minus the average without the latest value
	MeanChange   int `json:"mean_change"`   // Average change between consecutive values
}

// Computes the metrics of a series ordered by time. Averages are truncated to integers.
func Metrics(values []int) (Metric, error) {
	n := len(values)
	if n < 2 {
		return Metric{}, ErrNotEnoughSamples
	}

	average := mean(values)
	var change float64
	for i := 1; i < n; i++ {
		change += float64(values[i] - values[i-1])
	}

	return Metric{
		Current:      values[n-1],
		Delta:        values[n-1] - values[n-2],
		Average:      int(average),
		AverageDelta: int(average) - int(mean(values[:n-1])),
		MeanChange:   int(change / float64(n-1)),
	}, nil
}

func mean(values []int) float64 {
	var sum float64
	for _, v := range values {
		sum += float64(v)
	}
	return sum / float64(len(values))
}
