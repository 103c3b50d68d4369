package loader

// YouTube watch page / Innertube response shapes. Only the fields the
// transcript loader reads are declared.

const (
	ytBaseURL                   = "https://www.youtube.com"
	ytPlayerPath                = "/youtubei/v1/player"
	ytAndroidVersion            = "20.10.38"
	ytAndroidUA                 = "com.google.android.youtube/" + ytAndroidVersion + " (Linux; U; Android 11) gzip"
	ytInitialPlayerResponseMark = "ytInitialPlayerResponse = "
)

type playerResponse struct {
	Captions *struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
	PlayabilityStatus *struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
	VideoDetails *videoDetails `json:"videoDetails"`
	Microformat  *struct {
		PlayerMicroformatRenderer struct {
			PublishDate string `json:"publishDate"`
			UploadDate  string `json:"uploadDate"`
		} `json:"playerMicroformatRenderer"`
	} `json:"microformat"`
}

type videoDetails struct {
	VideoID          string `json:"videoId"`
	Title            string `json:"title"`
	LengthSeconds    string `json:"lengthSeconds"`
	ShortDescription string `json:"shortDescription"`
	ViewCount        string `json:"viewCount"`
	Author           string `json:"author"`
	Thumbnail        struct {
		Thumbnails []struct {
			URL    string `json:"url"`
			Width  int    `json:"width"`
			Height int    `json:"height"`
		} `json:"thumbnails"`
	} `json:"thumbnail"`
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"` // "asr" = auto-generated
}

func (p *playerResponse) tracks() []captionTrack {
	if p == nil || p.Captions == nil {
		return nil
	}
	return p.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
}

func (p *playerResponse) unplayableReason() string {
	if p == nil || p.PlayabilityStatus == nil {
		return ""
	}
	if p.PlayabilityStatus.Reason != "" {
		return p.PlayabilityStatus.Reason
	}
	if p.PlayabilityStatus.Status != "" && p.PlayabilityStatus.Status != "OK" {
		return p.PlayabilityStatus.Status
	}
	return ""
}

// ANDROID Innertube /player request

type innertubeReq struct {
	VideoID        string       `json:"videoId"`
	Context        innertubeCtx `json:"context"`
	RacyCheckOk    bool         `json:"racyCheckOk"`
	ContentCheckOk bool         `json:"contentCheckOk"`
}

type innertubeCtx struct {
	Client innertubeClient `json:"client"`
}

type innertubeClient struct {
	ClientName        string `json:"clientName"`
	ClientVersion     string `json:"clientVersion"`
	AndroidSdkVersion int    `json:"androidSdkVersion,omitempty"`
	Hl                string `json:"hl,omitempty"`
	Gl                string `json:"gl,omitempty"`
}

// timedtext XML, both the classic <text> format and srv3 <p>/<s>

type timedText struct {
	Lines []timedLine `xml:"text"`
	Body  struct {
		Paragraphs []timedParagraph `xml:"p"`
	} `xml:"body"`
}

type timedLine struct {
	Text string `xml:",chardata"`
}

type timedParagraph struct {
	Text     string   `xml:",chardata"`
	Segments []string `xml:"s"`
}
