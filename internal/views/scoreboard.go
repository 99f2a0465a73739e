package views

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"darevote/internal/viewmodel"
)

// Scoreboard renders the room's standings as an HTML fragment.
func Scoreboard(data viewmodel.Scoreboard) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		fmt.Fprintf(&b, `<section class="scoreboard" id="scoreboard-%s" data-status="%s">`,
			templ.EscapeString(data.Code), templ.EscapeString(data.Status))
		fmt.Fprintf(&b, `<header><h2>Room %s</h2>`, templ.EscapeString(data.Code))
		if data.Round > 0 {
			fmt.Fprintf(&b, `<p class="round">Round %d</p>`, data.Round)
		}
		b.WriteString(`</header>`)

		if data.Challenge != "" {
			fmt.Fprintf(&b, `<p class="challenge">%s</p>`, templ.EscapeString(data.Challenge))
			fmt.Fprintf(&b, `<p class="timer" data-seconds="%d">%ds left</p>`, data.SecondsLeft, data.SecondsLeft)
		}
		if data.Notes != "" {
			fmt.Fprintf(&b, `<p class="notes">%s</p>`, templ.EscapeString(data.Notes))
		}

		b.WriteString(`<ol class="players">`)
		for _, row := range data.Rows {
			b.WriteString(`<li class="` + rowClass(row) + `">`)
			fmt.Fprintf(&b, `<span class="name">%s</span>`, templ.EscapeString(row.Name))
			if row.Host {
				b.WriteString(`<span class="badge">host</span>`)
			}
			if row.Winner {
				b.WriteString(`<span class="badge">winner</span>`)
			}
			if row.Voted {
				b.WriteString(`<span class="badge">voted</span>`)
			}
			fmt.Fprintf(&b, `<span class="score">%d</span>`, row.Score)
			b.WriteString(`</li>`)
		}
		b.WriteString(`</ol></section>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
}

func rowClass(row viewmodel.ScoreRow) string {
	classes := []string{"player"}
	if row.Eliminated {
		classes = append(classes, "eliminated")
	}
	if row.Winner {
		classes = append(classes, "winner")
	}
	return strings.Join(classes, " ")
}
