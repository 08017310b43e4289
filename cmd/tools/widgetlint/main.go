// Command widgetlint checks a chat message for embedded widgets and reports
// how each one decodes. With -render it prints the themed HTML instead.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/zhouzirui/widget-chat/backend/internal/model/widget"
	"github.com/zhouzirui/widget-chat/backend/internal/service/extract"
	"github.com/zhouzirui/widget-chat/backend/internal/service/render"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("widgetlint", flag.ContinueOnError)
	fs.SetOutput(stderr)
	file := fs.String("file", "", "消息文本文件路径，留空则读取标准输入")
	doRender := fs.Bool("render", false, "输出渲染后的HTML")
	themeName := fs.String("theme", "light", "渲染主题: light 或 dark")
	depth := fs.Int("depth", widget.DefaultMaxDepth, "组件最大嵌套深度")
	asJSON := fs.Bool("json", false, "以JSON输出片段")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	in := stdin
	if *file != "" {
		f, err := os.Open(*file)
		if err != nil {
			fmt.Fprintf(stderr, "open %s: %v\n", *file, err)
			return 2
		}
		defer f.Close()
		in = f
	}

	text, err := io.ReadAll(in)
	if err != nil {
		fmt.Fprintf(stderr, "read input: %v\n", err)
		return 2
	}

	// Local files are trusted, so the whole input is scanned.
	ex := extract.New(widget.NewDecoder(widget.WithMaxDepth(*depth)), extract.WithMaxTextBytes(len(text)))
	segments := ex.Extract(string(text))

	failed := false
	for _, seg := range segments {
		if seg.Kind == extract.KindWidget && seg.Err != nil {
			failed = true
		}
	}

	switch {
	case *doRender:
		r := render.New(render.WithMaxDepth(*depth), render.WithMarkdown(render.NewGoldmarkMarkdown()))
		theme := render.ParseTheme(*themeName)
		for i, w := range extract.Widgets(segments) {
			html, err := r.Render(w, theme)
			if err != nil {
				fmt.Fprintf(stderr, "widget %d: %v\n", i, err)
				failed = true
				continue
			}
			fmt.Fprintln(stdout, html)
		}
	case *asJSON:
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(segments); err != nil {
			fmt.Fprintf(stderr, "encode: %v\n", err)
			return 2
		}
	default:
		for i, seg := range segments {
			switch {
			case seg.Kind == extract.KindText:
				fmt.Fprintf(stdout, "%2d text    %q\n", i, seg.Text)
			case seg.Err != nil:
				fmt.Fprintf(stdout, "%2d INVALID %v\n", i, seg.Err)
			default:
				tree, err := widget.Flatten(seg.Widget, *depth)
				nodes := 1
				if err == nil {
					nodes = tree.Len()
				}
				fmt.Fprintf(stdout, "%2d widget  %s (%d nodes)\n", i, seg.Widget.Kind(), nodes)
			}
		}
	}

	if failed {
		return 1
	}
	return 0
}
