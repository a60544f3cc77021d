package main

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/daodao97/xgo/utils"
	"github.com/daodao97/xgo/xapp"
	"github.com/daodao97/xgo/xlog"

	"philos/internal/api"
	"philos/internal/conf"
	"philos/internal/pkg/xllm"
	"philos/internal/pkg/xtools"
	"philos/internal/search"
	"philos/internal/wss"
)

var Version string

func init() {
	if !utils.IsGoRun() {
		xlog.SetLogger(xlog.StdoutJson(xlog.WithLevel(slog.LevelDebug)))
	}
}

func main() {
	app := xapp.NewApp().
		AddStartup(
			conf.InitConf,
		).
		AfterStarted(func() {
			xlog.Debug("version", xlog.String("version", Version))
		}).
		AddServer(xapp.NewHttp(xapp.Args.Bind, h))

	if err := app.Run(); err != nil {
		fmt.Printf("Application error: %v\n", err)
	}
}

func h() http.Handler {
	e := xapp.NewGin()

	cfg := conf.Get().Search
	llm := xllm.New(conf.Get().GetLLM("default"))
	engine := search.NewEngineFromConf(cfg, llm, nil)
	tools := xtools.NewTools(
		xtools.NewWebSearchTool(engine),
		xtools.NewTimeTool(),
	)

	wss.SetupRouter(e)
	api.SetupRouter(e, engine, tools)
	return e.Handler()
}
