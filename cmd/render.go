package cmd

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/vidwatch/vidwatch/internal/tracker"
)

const titleWidth = 55

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func renderVideos(w io.Writer, videos []tracker.Video) {
	if len(videos) == 0 {
		fmt.Fprintln(w, "  No results to display.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "#\tTitle\tChannel\tDuration\tViews")
	for i, v := range videos {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			i+1, truncate(v.Title, titleWidth), v.Channel, v.Duration, v.Views)
	}
	tw.Flush()
}

func renderObservations(w io.Writer, videos []tracker.Observation) {
	if len(videos) == 0 {
		fmt.Fprintln(w, "  No videos found.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "Title\tChannel\tDuration\tViews\tQuery\tScraped At")
	for _, v := range videos {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			truncate(v.Title, 40), truncate(v.Channel, 20), v.Duration,
			v.ViewsRaw, truncate(v.Query, 20),
			v.ScrapedAt.Format("2006-01-02 15:04:05"))
	}
	tw.Flush()
}

func renderTrending(w io.Writer, entries []tracker.TrendEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "  No trending data yet. Videos need at least two snapshots with growth.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "Title\tChannel\tQuery\tPrevious\tLatest\tGrowth\tGrowth %")
	for _, e := range entries {
		pct := "n/a"
		if e.GrowthPct != nil {
			pct = strconv.FormatFloat(*e.GrowthPct, 'f', 2, 64)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t+%d\t%s\n",
			truncate(e.Title, 40), truncate(e.Channel, 20), truncate(e.Query, 20),
			e.PreviousViews, e.LatestViews, e.Growth, pct)
	}
	tw.Flush()
}

func renderDuplicates(w io.Writer, entries []tracker.DuplicateEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "  No videos appear under more than one query.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "Title\tChannel\tViews\tQueries\tSeen In")
	for _, e := range entries {
		views := e.ViewsRaw
		if e.Views != nil {
			views = strconv.FormatInt(*e.Views, 10)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
			truncate(e.Title, 40), truncate(e.Channel, 20), views,
			e.QueryCount, truncate(e.Queries, 40))
	}
	tw.Flush()
}
