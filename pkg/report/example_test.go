package report_test

import (
	"fmt"

	"github.com/matzehuels/fundamental/pkg/funding"
	"github.com/matzehuels/fundamental/pkg/report"
)

func ExampleRankContributors() {
	records := []funding.Contributor{
		{Login: "alice", Contributions: 120, Sponsors: 14},
		{Login: "bob", Contributions: 300, Sponsors: 2},
		{Login: "carol", Contributions: 45, Sponsors: 0},
	}

	opts, _ := report.ParseSortOptions("sponsors", "")
	for _, c := range report.RankContributors(records, opts) {
		fmt.Printf("%s %d\n", c.Login, c.Sponsors)
	}
	// Output:
	// carol 0
	// bob 2
	// alice 14
}
