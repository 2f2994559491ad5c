package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/Guliveer/twitch-browser-go/internal/model"
	"github.com/Guliveer/twitch-browser-go/internal/utils"
)

const (
	colorReset = "\033[0m"
	colorBold  = "\033[1m"
	titleWidth = 60
)

type printer struct {
	w       io.Writer
	json    bool
	heading string
}

func newPrinter(w io.Writer, jsonOut, colored bool, accent string) *printer {
	p := &printer{w: w, json: jsonOut}
	if colored {
		p.heading = colorBold + accentColor(accent)
	}
	return p
}

// accentColor converts a 6-digit hex color to a 24-bit ANSI escape.
func accentColor(hex string) string {
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil || len(hex) != 6 {
		return ""
	}
	return fmt.Sprintf("\033[38;2;%d;%d;%dm", v>>16&0xff, v>>8&0xff, v&0xff)
}

func (p *printer) writeJSON(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (p *printer) title(s string, n int) {
	if p.heading != "" {
		fmt.Fprintf(p.w, "%s%s (%d)%s\n", p.heading, s, n, colorReset)
		return
	}
	fmt.Fprintf(p.w, "%s (%d)\n", s, n)
}

func (p *printer) table(header string, rows func(tw *tabwriter.Writer)) error {
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, header)
	rows(tw)
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(p.w)
	return nil
}

func (p *printer) streams(streams []model.Stream) error {
	if p.json {
		return p.writeJSON(streams)
	}
	p.title("Live", len(streams))
	return p.table("CHANNEL\tVIEWERS\tGAME\tTITLE\tURL", func(tw *tabwriter.Writer) {
		for _, s := range streams {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
				s.UserName, utils.Millify(s.ViewerCount, 1), s.GameName,
				utils.Truncate(s.Title, titleWidth), s.ChannelURL())
		}
	})
}

func (p *printer) users(users []model.User) error {
	if p.json {
		return p.writeJSON(users)
	}
	p.title("Offline", len(users))
	return p.table("CHANNEL\tVIEWS\tTYPE\tURL", func(tw *tabwriter.Writer) {
		for _, u := range users {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
				u.DisplayName, utils.Millify(u.ViewCount, 1), u.BroadcasterType, u.ChannelURL())
		}
	})
}

func (p *printer) channels(live, offline []model.Channel) error {
	if p.json {
		return p.writeJSON(map[string][]model.Channel{"live": live, "offline": offline})
	}
	for _, group := range []struct {
		name     string
		channels []model.Channel
	}{{"Live", live}, {"Offline", offline}} {
		p.title(group.name, len(group.channels))
		err := p.table("CHANNEL\tGAME\tTITLE\tURL", func(tw *tabwriter.Writer) {
			for _, c := range group.channels {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
					c.DisplayName, c.GameName, utils.Truncate(c.Title, titleWidth), c.ChannelURL())
			}
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *printer) videos(videos []model.Video) error {
	if p.json {
		return p.writeJSON(videos)
	}
	p.title("Videos", len(videos))
	return p.table("TITLE\tTYPE\tVIEWS\tDURATION\tCREATED\tURL", func(tw *tabwriter.Writer) {
		for _, v := range videos {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
				utils.Truncate(v.Title, titleWidth), v.Type, utils.Millify(v.ViewCount, 1),
				v.Duration, v.CreatedAt, v.URL)
		}
	})
}

func (p *printer) clips(clips []model.Clip) error {
	if p.json {
		return p.writeJSON(clips)
	}
	p.title("Clips", len(clips))
	return p.table("TITLE\tCREATOR\tVIEWS\tDURATION\tCREATED\tURL", func(tw *tabwriter.Writer) {
		for _, c := range clips {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%.0fs\t%s\t%s\n",
				utils.Truncate(c.Title, titleWidth), c.CreatorName, utils.Millify(c.ViewCount, 1),
				c.Duration, c.CreatedAt, c.URL)
		}
	})
}
