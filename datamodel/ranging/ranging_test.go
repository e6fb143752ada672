package ranging

import "testing"

func TestResultValid(t *testing.T) {
	cases := []struct {
		name string
		res  Result
		want bool
	}{
		{"ok in range", Result{Status: StatusOK, Distance: 4.2}, true},
		{"ok at min", Result{Status: StatusOK, Distance: MinRange}, true},
		{"ok at max", Result{Status: StatusOK, Distance: MaxRange}, true},
		{"failed status", Result{Status: StatusFailed, Distance: 4.2}, false},
		{"sentinel", Result{Status: StatusOK, Distance: DistanceUnavailable}, false},
		{"failed and sentinel", Result{Status: StatusFailed, Distance: DistanceUnavailable}, false},
		{"below min", Result{Status: StatusOK, Distance: 0.05}, false},
		{"above max", Result{Status: StatusOK, Distance: 101.0}, false},
	}
	for _, tc := range cases {
		if got := tc.res.Valid(); got != tc.want {
			t.Errorf("%s: Valid() = %t, want %t", tc.name, got, tc.want)
		}
	}
}

func TestQualityForDistance(t *testing.T) {
	cases := []struct {
		d    float64
		want Quality
	}{
		{2.0, QualityExcellent},
		{5.0, QualityExcellent},
		{12.0, QualityGood},
		{20.0, QualityGood},
		{35.0, QualityFair},
		{50.0, QualityFair},
		{80.0, QualityPoor},
		{DistanceUnavailable, QualityPoor},
	}
	for _, tc := range cases {
		if got := QualityForDistance(tc.d); got != tc.want {
			t.Errorf("QualityForDistance(%v) = %s, want %s", tc.d, got, tc.want)
		}
	}
}
