// Package hrf turns exported NIRS hemodynamic response tables into channel-averaged traces.
//
// An export holds one column per channel for the block-averaged response
// (names containing "ts_ch") and one column per channel for its standard
// deviation (names containing "std_ch"). The package loads such a table,
// splits it into the two channel groups, checks that the groups pair up and
// averages each group across channels:
//
//	res, err := hrf.AnalyzeFile("before_hrf_hbo.csv", hrf.DefaultOptions())
//	if errors.Is(err, hrf.ErrFileNotFound) {
//	    // actionable message for the user
//	}
//	fmt.Println(res.Pair.Mean, res.Pair.Spread, res.Axis)
//
// # Spread statistic
//
// By default the band is the average of the per-channel standard deviations,
// which is what the exports were historically plotted with. It is not a pooled
// deviation nor a standard error; SpreadPooled and SpreadSEM provide those.
//
// # Inputs
//
// Comma or tab separated text, xlsx workbooks, and gz/lz4/zip compressed
// copies of either are accepted.
package hrf
