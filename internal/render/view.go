// Package render draws client state to a terminal.
package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/serroba/shortlink-client/internal/collection"
	"github.com/serroba/shortlink-client/internal/creation"
	"github.com/serroba/shortlink-client/internal/health"
	"github.com/serroba/shortlink-client/internal/links"
	"github.com/serroba/shortlink-client/internal/qr"
)

// Display text.
const (
	TextLoading      = "加载中..."
	TextEmpty        = "您还没有创建任何短链接"
	TextListTitle    = "我的短链接"
	TextCreated      = "短链接生成成功！"
	TextExpiredMark  = " (已过期)"
	TextLongURL      = "原始链接："
	TextShortURL     = "短链接："
	TextCreatedAt    = "创建时间："
	TextExpiresAt    = "过期时间："
	TextScanQR       = "扫描二维码"
	TextQRAsset      = "二维码地址："
	TextRemaining    = " (剩余 %s)"
	TextSubmitting   = "生成中..."
	TextUnknownState = "unknown"
)

// View writes rendered state to out. Expiry is evaluated against the clock on every call.
type View struct {
	out    io.Writer
	loc    *time.Location
	now    func() time.Time
	styles styles
}

// New creates a View writing to out, formatting timestamps in loc (time.Local when nil).
func New(out io.Writer, loc *time.Location) *View {
	if loc == nil {
		loc = time.Local
	}

	return &View{
		out:    out,
		loc:    loc,
		now:    time.Now,
		styles: newStyles(lipgloss.NewRenderer(out)),
	}
}

// WithClock replaces the wall clock, for tests.
func (v *View) WithClock(now func() time.Time) *View {
	v.now = now

	return v
}

// QRPanel is the QR block shown under the card whose code Reveal has selected.
type QRPanel struct {
	Reveal   *qr.RevealController
	Art      string
	AssetRef string
}

// Collection renders the list page: loading indicator, full-page error, empty state, or one card per link.
func (v *View) Collection(s collection.State, panel QRPanel) error {
	switch s.LoadState {
	case collection.LoadStateLoading:
		return v.println(v.styles.muted.Render(TextLoading))
	case collection.LoadStateError:
		return v.println(v.styles.errBox.Render(v.styles.errText.Render(s.ErrorMessage)))
	case collection.LoadStateReady:
	default:
		return v.println(v.styles.muted.Render(TextUnknownState))
	}

	if err := v.println(v.styles.title.Render(TextListTitle)); err != nil {
		return err
	}

	if len(s.Links) == 0 {
		return v.println(v.styles.muted.Render(TextEmpty))
	}

	now := v.now()

	for i := range s.Links {
		link := &s.Links[i]
		if err := v.println(v.linkCard(link, now)); err != nil {
			return err
		}

		if panel.Reveal != nil && panel.Reveal.IsShown(link.ShortCode) {
			if err := v.QR(panel.Art, panel.AssetRef); err != nil {
				return err
			}
		}
	}

	return nil
}

// LinkCard renders a single link as it appears in the list.
func (v *View) LinkCard(link *links.ShortLink) string {
	return v.linkCard(link, v.now())
}

func (v *View) linkCard(link *links.ShortLink, now time.Time) string {
	lines := []string{
		fmt.Sprintf("#%d", link.ID),
		v.field(TextLongURL, links.TruncatedLongURL(link, links.DefaultTruncateLength)),
		v.field(TextShortURL, v.styles.link.Render(link.ShortURL)),
		v.field(TextCreatedAt, links.FormatTimestamp(link.CreatedAt, v.loc)),
	}

	box := v.styles.card

	if link.ExpiresAt != nil {
		expires := links.FormatTimestamp(*link.ExpiresAt, v.loc)

		switch links.StatusAt(link, now) {
		case links.StatusExpired:
			expires += v.styles.expired.Render(TextExpiredMark)
			box = v.styles.stale
		case links.StatusActive:
			left := links.ExpiresIn(link, now).Round(time.Second)
			expires += v.styles.muted.Render(fmt.Sprintf(TextRemaining, left))
		}

		lines = append(lines, v.field(TextExpiresAt, expires))
	}

	return box.Render(strings.Join(lines, "\n"))
}

// Creation renders the outcome of the create form: the result card on success,
// an inline error on failure, a progress line while submitting, nothing when idle.
func (v *View) Creation(s creation.State) error {
	switch s.Phase {
	case creation.PhaseSubmitting:
		return v.println(v.styles.muted.Render(TextSubmitting))
	case creation.PhaseFailed:
		return v.Alert(s.ErrorMessage)
	case creation.PhaseSucceeded:
		if s.Result == nil {
			return nil
		}

		return v.println(v.resultCard(s.Result))
	case creation.PhaseIdle:
	}

	return nil
}

func (v *View) resultCard(link *links.ShortLink) string {
	lines := []string{
		v.styles.success.Render(TextCreated),
		v.field(TextLongURL, link.LongURL),
		v.field(TextShortURL, v.styles.link.Render(link.ShortURL)),
		v.field(TextCreatedAt, links.FormatTimestamp(link.CreatedAt, v.loc)),
	}

	if link.ExpiresAt != nil {
		lines = append(lines, v.field(TextExpiresAt, links.FormatTimestamp(*link.ExpiresAt, v.loc)))
	}

	return v.styles.okBox.Render(strings.Join(lines, "\n"))
}

// Alert renders a one-line error message.
func (v *View) Alert(message string) error {
	return v.println(v.styles.errText.Render("✗ " + message))
}

// QR renders a code block captioned for scanning, followed by the backend's QR asset location when known.
func (v *View) QR(art, assetRef string) error {
	out := v.styles.muted.Render(TextScanQR) + "\n" + strings.TrimRight(art, "\n")
	if assetRef != "" {
		out += "\n" + v.field(TextQRAsset, v.styles.link.Render(assetRef))
	}

	return v.println(out)
}

// Identity renders the persisted user id.
func (v *View) Identity(userID links.UserID) error {
	return v.println(string(userID))
}

// Health renders an aggregate status line followed by one line per dependency.
func (v *View) Health(report health.Report) error {
	status := v.styles.success.Render(report.Status)
	if report.Status != health.StatusOK {
		status = v.styles.errText.Render(report.Status)
	}

	lines := []string{status}

	for _, name := range report.Names() {
		result := report.Dependencies[name]
		mark := v.styles.success.Render("✓")

		if result != health.Healthy {
			mark = v.styles.errText.Render("✗")
		}

		lines = append(lines, fmt.Sprintf("%s %s %s", mark, name, v.styles.muted.Render(result)))
	}

	return v.println(strings.Join(lines, "\n"))
}

func (v *View) field(label, value string) string {
	return v.styles.label.Render(label) + value
}

func (v *View) println(s string) error {
	_, err := fmt.Fprintln(v.out, s)

	return err
}
