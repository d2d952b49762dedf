package scraper

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"github.com/vidwatch/vidwatch/internal/tracker"
)

// ErrNoData means the page carried no recognizable ytInitialData blob,
// usually a consent interstitial or a layout change.
var ErrNoData = errors.New("no video data found in page")

const watchURL = "https://youtube.com/watch?v="

var initialDataRe = regexp.MustCompile(`var ytInitialData = (\{.*?\});`)

// The structs below mirror only the slice of ytInitialData the listing
// needs; everything else in the blob is ignored by encoding/json.
type initialData struct {
	Contents struct {
		TwoColumnSearchResultsRenderer struct {
			PrimaryContents struct {
				SectionListRenderer struct {
					Contents []section `json:"contents"`
				} `json:"sectionListRenderer"`
			} `json:"primaryContents"`
		} `json:"twoColumnSearchResultsRenderer"`
	} `json:"contents"`
}

type section struct {
	ItemSectionRenderer *struct {
		Contents []item `json:"contents"`
	} `json:"itemSectionRenderer"`
}

type item struct {
	VideoRenderer *videoRenderer `json:"videoRenderer"`
}

type videoRenderer struct {
	VideoID       string     `json:"videoId"`
	Title         runsText   `json:"title"`
	OwnerText     runsText   `json:"ownerText"`
	LengthText    simpleText `json:"lengthText"`
	ViewCountText simpleText `json:"viewCountText"`
}

type runsText struct {
	Runs []struct {
		Text string `json:"text"`
	} `json:"runs"`
}

func (r runsText) text() string {
	if len(r.Runs) == 0 {
		return ""
	}
	return r.Runs[0].Text
}

type simpleText struct {
	SimpleText string `json:"simpleText"`
}

func (s simpleText) orNA() string {
	if s.SimpleText == "" {
		return "N/A"
	}
	return s.SimpleText
}

// ParseResults extracts the video listing embedded in a search results
// page. Malformed entries (missing id, title, or channel) are dropped.
func ParseResults(page []byte) ([]tracker.Video, error) {
	m := initialDataRe.FindSubmatch(page)
	if m == nil {
		return nil, ErrNoData
	}

	var data initialData
	if err := json.Unmarshal(m[1], &data); err != nil {
		return nil, fmt.Errorf("decode ytInitialData: %w", err)
	}

	var videos []tracker.Video
	for _, sec := range data.Contents.TwoColumnSearchResultsRenderer.PrimaryContents.SectionListRenderer.Contents {
		if sec.ItemSectionRenderer == nil {
			continue
		}
		for _, it := range sec.ItemSectionRenderer.Contents {
			v := it.VideoRenderer
			if v == nil {
				continue
			}
			title := v.Title.text()
			channel := v.OwnerText.text()
			if v.VideoID == "" || title == "" || channel == "" {
				continue
			}
			videos = append(videos, tracker.Video{
				ID:       v.VideoID,
				Title:    title,
				Channel:  channel,
				Duration: v.LengthText.orNA(),
				Views:    v.ViewCountText.orNA(),
				URL:      watchURL + v.VideoID,
			})
		}
	}
	return videos, nil
}
