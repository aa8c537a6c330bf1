package feature

import "math"

// DriftReport summarizes how far recent feature distributions have moved
// from the reference window used at training time.
type DriftReport struct {
	Score    float64            `json:"score"`
	Drifted  bool               `json:"drifted"`
	Features map[string]float64 `json:"features"`
}

// DetectDrift compares the mean of each feature in recent rows against the
// reference rows, standardized by the reference deviation. The overall score
// is the mean of per-feature shifts; it is compared against threshold to
// decide whether retraining should be flagged.
func DetectDrift(reference, recent []Row, threshold float64) DriftReport {
	report := DriftReport{Features: make(map[string]float64)}
	if len(reference) == 0 || len(recent) == 0 {
		return report
	}

	names := Names()
	var total float64
	var counted int
	for _, name := range names {
		refMean, refStd := meanStd(reference, name)
		recMean, _ := meanStd(recent, name)
		if refStd == 0 {
			continue
		}
		shift := math.Abs(recMean-refMean) / refStd
		report.Features[name] = shift
		total += shift
		counted++
	}
	if counted > 0 {
		report.Score = total / float64(counted)
	}
	report.Drifted = report.Score > threshold
	return report
}

func meanStd(rows []Row, name string) (mean, std float64) {
	n := float64(len(rows))
	for _, r := range rows {
		mean += r.Values[name]
	}
	mean /= n
	for _, r := range rows {
		d := r.Values[name] - mean
		std += d * d
	}
	std = math.Sqrt(std / n)
	return mean, std
}
