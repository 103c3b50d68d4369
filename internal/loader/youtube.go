package loader

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"go-summarizer/internal/config"
)

var videoIDRE = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)

// VideoID pulls the 11-char video ID out of any common YouTube URL shape:
// watch?v=, youtu.be/, shorts/, embed/, live/, v/
func VideoID(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || !IsYouTube(rawURL) {
		return ""
	}
	if id := u.Query().Get("v"); videoIDRE.MatchString(id) {
		return id
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if strings.EqualFold(u.Hostname(), "youtu.be") && len(parts) > 0 && videoIDRE.MatchString(parts[0]) {
		return parts[0]
	}
	if len(parts) >= 2 {
		switch parts[0] {
		case "shorts", "embed", "live", "v":
			if videoIDRE.MatchString(parts[1]) {
				return parts[1]
			}
		}
	}
	return ""
}

// YouTubeLoader fetches a video transcript and, optionally, its video info
type YouTubeLoader struct {
	httpClient *http.Client
	userAgent  string
	languages  []string
	videoInfo  bool
	baseURL    string
	log        zerolog.Logger
}

// NewYouTubeLoader creates the transcript loader.
// Certificate verification is always on for YouTube.
func NewYouTubeLoader(cfg config.YouTubeConfig, fetch config.FetchConfig, log zerolog.Logger) *YouTubeLoader {
	langs := cfg.Languages
	if len(langs) == 0 {
		langs = []string{"en"}
	}
	userAgent := fetch.UserAgent
	if userAgent == "" {
		userAgent = config.DefaultUserAgent
	}
	return &YouTubeLoader{
		httpClient: NewHTTPClient(time.Duration(fetch.TimeoutSeconds)*time.Second, false),
		userAgent:  userAgent,
		languages:  langs,
		videoInfo:  cfg.IncludeVideoInfo,
		baseURL:    ytBaseURL,
		log:        log,
	}
}

// Name returns the loader identifier
func (y *YouTubeLoader) Name() string {
	return "youtube"
}

// Load returns the whole transcript as a single fragment.
// The watch page is tried first; the ANDROID player endpoint is used only
// when the page has no usable caption track.
func (y *YouTubeLoader) Load(ctx context.Context, rawURL string) ([]Fragment, error) {
	videoID := VideoID(rawURL)
	if videoID == "" {
		return nil, fmt.Errorf("could not find a video ID in %q", rawURL)
	}

	player, err := y.playerFromWatchPage(ctx, videoID)
	track, ok := pickBestTrack(player.tracks(), y.languages)
	if err != nil || !ok {
		y.log.Warn().Err(err).Str("video_id", videoID).Msg("watch page had no usable captions, trying player endpoint")
		fallback, ferr := y.playerFromInnertube(ctx, videoID)
		if ferr != nil {
			return nil, joinErrs("fetch transcript", err, ferr)
		}
		track, ok = pickBestTrack(fallback.tracks(), y.languages)
		if !ok {
			if reason := fallback.unplayableReason(); reason != "" {
				return nil, fmt.Errorf("transcripts unavailable for video %s: %s", videoID, reason)
			}
			return nil, fmt.Errorf("no transcript available for video %s", videoID)
		}
		if player == nil || player.VideoDetails == nil {
			player = fallback
		}
	}

	text, err := y.fetchTimedText(ctx, track.BaseURL)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, fmt.Errorf("transcript for video %s: %w", videoID, ErrEmptyContent)
	}

	meta := map[string]any{"source": videoID, "language": track.LanguageCode}
	if y.videoInfo {
		addVideoInfo(meta, player)
	}
	y.log.Debug().Str("video_id", videoID).Str("language", track.LanguageCode).Int("chars", len(text)).Msg("transcript loaded")
	return []Fragment{{Text: text, Metadata: meta}}, nil
}

// playerFromWatchPage scrapes ytInitialPlayerResponse out of the watch page
func (y *YouTubeLoader) playerFromWatchPage(ctx context.Context, videoID string) (*playerResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, y.baseURL+"/watch?v="+videoID, nil)
	if err != nil {
		return nil, err
	}
	setBrowserHeaders(req, y.userAgent)

	resp, err := y.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("watch page: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("watch page: HTTP %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("watch page: %w", err)
	}

	var player *playerResponse
	var decodeErr error
	doc.Find("script").EachWithBreak(func(i int, s *goquery.Selection) bool {
		script := s.Text()
		idx := strings.Index(script, ytInitialPlayerResponseMark)
		if idx < 0 {
			return true
		}
		var p playerResponse
		dec := json.NewDecoder(strings.NewReader(script[idx+len(ytInitialPlayerResponseMark):]))
		if decodeErr = dec.Decode(&p); decodeErr != nil {
			return true
		}
		player = &p
		return false
	})
	if player == nil {
		if decodeErr != nil {
			return nil, fmt.Errorf("decode ytInitialPlayerResponse: %w", decodeErr)
		}
		return nil, errors.New("ytInitialPlayerResponse not found in watch page")
	}
	return player, nil
}

// playerFromInnertube asks the ANDROID Innertube client for caption tracks
func (y *YouTubeLoader) playerFromInnertube(ctx context.Context, videoID string) (*playerResponse, error) {
	body, err := json.Marshal(innertubeReq{
		VideoID: videoID,
		Context: innertubeCtx{
			Client: innertubeClient{
				ClientName:        "ANDROID",
				ClientVersion:     ytAndroidVersion,
				AndroidSdkVersion: 30,
				Hl:                "en",
				Gl:                "US",
			},
		},
		RacyCheckOk:    true,
		ContentCheckOk: true,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, y.baseURL+ytPlayerPath+"?prettyPrint=false", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", ytAndroidUA)
	req.Header.Set("X-Youtube-Client-Name", "3")
	req.Header.Set("X-Youtube-Client-Version", ytAndroidVersion)

	resp, err := y.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("innertube player: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("innertube player: HTTP %d", resp.StatusCode)
	}

	var player playerResponse
	if err := json.NewDecoder(resp.Body).Decode(&player); err != nil {
		return nil, fmt.Errorf("decode player: %w", err)
	}
	return &player, nil
}

// fetchTimedText downloads a caption track and joins its lines with spaces
func (y *YouTubeLoader) fetchTimedText(ctx context.Context, trackURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, trackURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", y.userAgent)

	resp, err := y.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch timedtext: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch timedtext: HTTP %d", resp.StatusCode)
	}

	body, err := readLimited(resp.Body, 4*1024*1024)
	if err != nil {
		return "", err
	}
	return parseTimedText(body)
}

func parseTimedText(body []byte) (string, error) {
	var tt timedText
	if err := xml.Unmarshal(body, &tt); err != nil {
		return "", fmt.Errorf("parse timedtext XML: %w", err)
	}

	parts := make([]string, 0, len(tt.Lines)+len(tt.Body.Paragraphs))
	for _, line := range tt.Lines {
		parts = appendCaption(parts, line.Text)
	}
	for _, p := range tt.Body.Paragraphs {
		if len(p.Segments) > 0 {
			parts = appendCaption(parts, strings.Join(p.Segments, ""))
		} else {
			parts = appendCaption(parts, p.Text)
		}
	}
	return strings.Join(parts, " "), nil
}

func appendCaption(parts []string, raw string) []string {
	text := strings.Join(strings.Fields(html.UnescapeString(raw)), " ")
	if text == "" {
		return parts
	}
	return append(parts, text)
}

// needsPoToken reports whether a caption track URL can only be fetched by a browser
func needsPoToken(baseURL string) bool {
	return strings.Contains(baseURL, "&exp=xpe")
}

// pickBestTrack prefers a manual track in a requested language, then an
// auto-generated one, then any English track, then the first usable one
func pickBestTrack(tracks []captionTrack, langs []string) (captionTrack, bool) {
	usable := make([]captionTrack, 0, len(tracks))
	for _, t := range tracks {
		if t.BaseURL != "" && !needsPoToken(t.BaseURL) {
			usable = append(usable, t)
		}
	}
	if len(usable) == 0 {
		return captionTrack{}, false
	}
	for _, lang := range langs {
		for _, t := range usable {
			if t.LanguageCode == lang && t.Kind != "asr" {
				return t, true
			}
		}
	}
	for _, lang := range langs {
		for _, t := range usable {
			if t.LanguageCode == lang {
				return t, true
			}
		}
	}
	for _, t := range usable {
		if strings.HasPrefix(t.LanguageCode, "en") {
			return t, true
		}
	}
	return usable[0], true
}

// addVideoInfo copies the video details into fragment metadata
func addVideoInfo(meta map[string]any, player *playerResponse) {
	if player == nil || player.VideoDetails == nil {
		return
	}
	d := player.VideoDetails
	meta["title"] = d.Title
	meta["description"] = d.ShortDescription
	meta["author"] = d.Author
	if n, err := strconv.ParseInt(d.ViewCount, 10, 64); err == nil {
		meta["view_count"] = n
	}
	if n, err := strconv.Atoi(d.LengthSeconds); err == nil {
		meta["length"] = n
	}
	if thumbs := d.Thumbnail.Thumbnails; len(thumbs) > 0 {
		meta["thumbnail_url"] = thumbs[len(thumbs)-1].URL
	}
	if player.Microformat != nil {
		date := player.Microformat.PlayerMicroformatRenderer.PublishDate
		if date == "" {
			date = player.Microformat.PlayerMicroformatRenderer.UploadDate
		}
		if date != "" {
			meta["publish_date"] = date
		}
	}
}

func joinErrs(op string, errs ...error) error {
	var kept []error
	for _, err := range errs {
		if err != nil {
			kept = append(kept, err)
		}
	}
	if len(kept) == 0 {
		return fmt.Errorf("%s: no usable caption track", op)
	}
	return fmt.Errorf("%s: %w", op, errors.Join(kept...))
}
