package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/xRiceFarmer/bloglist-client/internal/app"
	"github.com/xRiceFarmer/bloglist-client/internal/domain"
	"github.com/xRiceFarmer/bloglist-client/internal/notify"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	likesStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// lineReader owns the interactive input stream. A single goroutine performs
// the blocking reads and hands lines over a channel, so both the command loop
// and the confirmation prompt can wait for input without ignoring context
// cancellation, and a mid-command prompt never races the loop for buffered
// input.
type lineReader struct {
	lines chan string
	errc  chan error
}

func newLineReader(r io.Reader) *lineReader {
	lr := &lineReader{lines: make(chan string), errc: make(chan error, 1)}
	buf := bufio.NewReader(r)
	go func() {
		for {
			line, err := buf.ReadString('\n')
			if err != nil {
				lr.errc <- err
				close(lr.lines)
				return
			}
			lr.lines <- line
		}
	}()
	return lr
}

// Next returns the next input line. It unblocks with ctx.Err() on
// cancellation and with the read error once the stream is exhausted.
func (lr *lineReader) Next(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-lr.lines:
		if !ok {
			return "", <-lr.errc
		}
		return line, nil
	}
}

// runUI is the interactive command loop. It reads one command per line and
// re-renders the view after every action; notifications print as soon as
// they are issued.
func runUI(ctx context.Context, o *app.Orchestrator, center *notify.Center, input *lineReader) error {
	center.OnChange(func() {
		if n, ok := center.Current(); ok {
			printNotification(n)
		}
	})

	render(o.View())

	for {
		fmt.Print("> ")
		line, err := input.Next(ctx)
		if err != nil {
			if err == io.EOF || ctx.Err() != nil {
				return nil
			}
			return err
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			render(o.View())
			continue
		}

		if quit := dispatch(ctx, o, fields); quit {
			return nil
		}
		render(o.View())
	}
}

func dispatch(ctx context.Context, o *app.Orchestrator, fields []string) (quit bool) {
	switch fields[0] {
	case "quit", "exit":
		return true
	case "help":
		printHelp()
	case "login":
		if len(fields) != 3 {
			fmt.Println("usage: login <username> <password>")
			break
		}
		// Errors already surfaced as a notification.
		_ = o.Login(ctx, fields[1], fields[2])
	case "logout":
		o.Logout(ctx)
	case "retry":
		o.Retry(ctx)
	case "create":
		if len(fields) < 4 {
			fmt.Println("usage: create <title> <author> <url> (quote-free, last field is the url)")
			break
		}
		url := fields[len(fields)-1]
		author := fields[len(fields)-2]
		title := strings.Join(fields[1:len(fields)-2], " ")
		_ = o.CreateBlog(ctx, domain.NewBlog{Title: title, Author: author, URL: url})
	case "like":
		if id, ok := blogIDByIndex(o, fields, 2); ok {
			_ = o.LikeBlog(ctx, id)
		}
	case "remove":
		if id, ok := blogIDByIndex(o, fields, 2); ok {
			_ = o.RemoveBlog(ctx, id)
		}
	case "comment":
		if len(fields) < 3 {
			fmt.Println("usage: comment <n> <text>")
			break
		}
		if id, ok := blogIDByIndex(o, fields[:2], 2); ok {
			_ = o.CommentBlog(ctx, id, strings.Join(fields[2:], " "))
		}
	default:
		fmt.Printf("unknown command %q, try help\n", fields[0])
	}
	return false
}

// blogIDByIndex resolves a 1-based list position from the rendered view.
func blogIDByIndex(o *app.Orchestrator, fields []string, want int) (string, bool) {
	if len(fields) != want {
		fmt.Printf("usage: %s <n>\n", fields[0])
		return "", false
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil {
		fmt.Printf("%q is not a list position\n", fields[1])
		return "", false
	}
	blogs := o.View().Blogs
	if n < 1 || n > len(blogs) {
		fmt.Printf("no blog at position %d\n", n)
		return "", false
	}
	return blogs[n-1].ID, true
}

func render(v app.View) {
	switch v.State {
	case app.StateRestoring:
		fmt.Println(mutedStyle.Render("restoring session..."))
	case app.StateLoggedOut:
		fmt.Println(mutedStyle.Render("not logged in — use: login <username> <password>"))
	case app.StateLoading:
		fmt.Println(mutedStyle.Render("loading blogs..."))
	case app.StateFetchFailed:
		fmt.Println(errorStyle.Render("could not load blogs — use: retry"))
	case app.StateReady:
		renderList(v)
	}
}

func renderList(v app.View) {
	fmt.Printf("%s %s\n", titleStyle.Render("blogs"), mutedStyle.Render(fmt.Sprintf("(%s logged in)", v.Session.Name)))
	for i, b := range v.Blogs {
		fmt.Printf("%2d. %s %s %s\n", i+1,
			titleStyle.Render(b.Title),
			mutedStyle.Render("by "+b.Author),
			likesStyle.Render(fmt.Sprintf("♥ %d", b.Likes)))
		if len(b.Comments) > 0 {
			fmt.Printf("    %s\n", mutedStyle.Render(fmt.Sprintf("%d comment(s)", len(b.Comments))))
		}
	}
	if len(v.Blogs) == 0 {
		fmt.Println(mutedStyle.Render("no blogs yet — use: create <title> <author> <url>"))
	}
}

func printNotification(n domain.Notification) {
	style := successStyle
	if n.Kind == domain.KindError {
		style = errorStyle
	}
	fmt.Println(style.Render(n.Text))
}

func printHelp() {
	fmt.Println(`commands:
  login <username> <password>
  logout
  create <title> <author> <url>
  like <n>
  comment <n> <text>
  remove <n>
  retry
  quit`)
}

// stdinConfirmer is the interactive yes/no prompt used before deletions.
// A cancelled context aborts the prompt; the caller treats that as declined.
type stdinConfirmer struct {
	in  *lineReader
	out io.Writer
}

func newStdinConfirmer(in *lineReader, out io.Writer) *stdinConfirmer {
	return &stdinConfirmer{in: in, out: out}
}

func (c *stdinConfirmer) Confirm(ctx context.Context, message string) (bool, error) {
	fmt.Fprintf(c.out, "%s [y/N] ", message)
	line, err := c.in.Next(ctx)
	if err != nil {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
