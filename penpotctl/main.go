package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"golang.org/x/term"

	"github.com/docopt/docopt-go"

	"github.com/penpothq/penpot-go/penpot"
)

const PenpotCtlVersion = "0.1.0"

var Out *log.Logger
var Err *log.Logger

func init() {
	Out = log.New(os.Stdout, "", 0)
	Err = log.New(os.Stderr, "", log.Ldate|log.Ltime|log.Lshortfile)
}

func main() {
	usage := fmt.Sprintf(`Penpot control.

The default api url is:
    api_url: %s

Credentials come from --email/--password, the config file, or the
PENPOT_USERNAME and PENPOT_PASSWORD environment variables. A missing
password is prompted for.

Usage:
    penpotctl login [--config=<config>] [--api_url=<api_url>]
        [--email=<email>] [--password=<password>]
    penpotctl profile [--config=<config>] [--api_url=<api_url>]
    penpotctl teams [--config=<config>] [--api_url=<api_url>]
    penpotctl projects [--config=<config>] [--api_url=<api_url>]
    penpotctl files [--config=<config>] [--api_url=<api_url>] --project=<project_id>
    penpotctl get-file [--config=<config>] [--api_url=<api_url>] --file=<file_id> [--revn]
    penpotctl add-rect [--config=<config>] [--api_url=<api_url>] --file=<file_id> --page=<page_id>
        --x=<x> --y=<y> --width=<width> --height=<height>
        [--fill=<fill>] [--name=<name>]
    penpotctl add-text [--config=<config>] [--api_url=<api_url>] --file=<file_id> --page=<page_id>
        --x=<x> --y=<y> --text=<text> [--size=<size>] [--fill=<fill>]
    penpotctl del-obj [--config=<config>] [--api_url=<api_url>] --file=<file_id> --page=<page_id>
        --object=<object_id>
    penpotctl export [--config=<config>] [--api_url=<api_url>] --file=<file_id> --page=<page_id>
        --object=<object_id> [--type=<type>] [--out=<out>]
    penpotctl watch [--config=<config>] [--api_url=<api_url>] --file=<file_id>
    penpotctl serve-images [--port=<port>]

Options:
    -h --help              Show this screen.
    --version              Show version.
    --config=<config>      Config file path [default: ~/.config/penpotctl/config.toml].
    --api_url=<api_url>
    --email=<email>
    --password=<password>
    --project=<project_id>
    --file=<file_id>
    --page=<page_id>
    --object=<object_id>
    --revn                 Print only the revision counter.
    --x=<x>
    --y=<y>
    --width=<width>
    --height=<height>
    --fill=<fill>          Fill color [default: #000000].
    --name=<name>
    --text=<text>
    --size=<size>          Font size [default: 16].
    --type=<type>          Export type (png, svg, pdf) [default: png].
    --out=<out>            Output path [default: export.png].
    -p --port=<port>       Image server listen port [default: 8787].`,
		penpot.DefaultApiUrl,
	)

	opts, err := docopt.ParseArgs(usage, os.Args[1:], PenpotCtlVersion)
	if err != nil {
		panic(err)
	}

	if login_, _ := opts.Bool("login"); login_ {
		login(opts)
	} else if profile_, _ := opts.Bool("profile"); profile_ {
		profile(opts)
	} else if teams_, _ := opts.Bool("teams"); teams_ {
		teams(opts)
	} else if projects_, _ := opts.Bool("projects"); projects_ {
		projects(opts)
	} else if files_, _ := opts.Bool("files"); files_ {
		files(opts)
	} else if getFile_, _ := opts.Bool("get-file"); getFile_ {
		getFile(opts)
	} else if addRect_, _ := opts.Bool("add-rect"); addRect_ {
		addRect(opts)
	} else if addText_, _ := opts.Bool("add-text"); addText_ {
		addText(opts)
	} else if delObj_, _ := opts.Bool("del-obj"); delObj_ {
		delObj(opts)
	} else if export_, _ := opts.Bool("export"); export_ {
		exportObject(opts)
	} else if watch_, _ := opts.Bool("watch"); watch_ {
		watch(opts)
	} else if serveImages_, _ := opts.Bool("serve-images"); serveImages_ {
		serveImages(opts)
	}
}

func newApi(opts docopt.Opts) *penpot.PenpotApi {
	config := loadConfig(opts)

	apiUrl, _ := opts.String("--api_url")
	if apiUrl == "" {
		apiUrl = config.ApiUrl
	}

	api := penpot.NewPenpotApi(apiUrl)

	email, _ := opts.String("--email")
	if email == "" {
		email = config.Email
	}
	password, _ := opts.String("--password")
	if password == "" {
		password = config.Password
	}
	if email != "" || password != "" {
		api.SetCredentials(email, password)
	}
	return api
}

func login(opts docopt.Opts) {
	config := loadConfig(opts)

	email, _ := opts.String("--email")
	if email == "" {
		email = config.Email
	}
	if email == "" {
		email = os.Getenv("PENPOT_USERNAME")
	}
	if email == "" {
		Err.Fatal("an email is required to log in")
	}

	password, _ := opts.String("--password")
	if password == "" {
		password = config.Password
	}
	if password == "" {
		password = os.Getenv("PENPOT_PASSWORD")
	}
	if password == "" {
		Out.Printf("Enter your password for %s:", email)
		passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
		if err != nil {
			Err.Fatalf("could not read password: %s", err)
		}
		password = string(passwordBytes)
	}

	apiUrl, _ := opts.String("--api_url")
	if apiUrl == "" {
		apiUrl = config.ApiUrl
	}
	api := penpot.NewPenpotApi(apiUrl)
	defer api.Close()
	api.SetCredentials(email, password)

	if err := api.Login(context.Background()); err != nil {
		Err.Fatalf("login failed: %s", err)
	}
	Out.Printf("logged in, profile id %s", api.ProfileId())
	Out.Printf("access token: %s", api.AccessToken())
}

func profile(opts docopt.Opts) {
	api := newApi(opts)
	defer api.Close()

	profile, err := api.GetProfile(context.Background())
	if err != nil {
		Err.Fatal(err)
	}
	printJson(profile)
}

func teams(opts docopt.Opts) {
	api := newApi(opts)
	defer api.Close()

	teams, err := api.GetTeams(context.Background())
	if err != nil {
		Err.Fatal(err)
	}
	printJson(teams)
}

func projects(opts docopt.Opts) {
	api := newApi(opts)
	defer api.Close()

	projects, err := api.ListProjects(context.Background())
	if err != nil {
		Err.Fatal(err)
	}
	printJson(projects)
}

func files(opts docopt.Opts) {
	api := newApi(opts)
	defer api.Close()

	projectId, _ := opts.String("--project")
	files, err := api.GetProjectFiles(context.Background(), projectId)
	if err != nil {
		Err.Fatal(err)
	}
	printJson(files)
}

func getFile(opts docopt.Opts) {
	api := newApi(opts)
	defer api.Close()

	fileId, _ := opts.String("--file")
	file, err := api.GetFile(context.Background(), fileId)
	if err != nil {
		Err.Fatal(err)
	}
	if revnOnly, _ := opts.Bool("--revn"); revnOnly {
		Out.Printf("%d", file.Revn)
		return
	}
	printJson(file.Data)
}

func addRect(opts docopt.Opts) {
	api := newApi(opts)
	defer api.Close()

	fileId, _ := opts.String("--file")
	pageId, _ := opts.String("--page")
	fill, _ := opts.String("--fill")
	name, _ := opts.String("--name")

	rect := penpot.NewRectangle(&penpot.RectangleArgs{
		X:         floatOpt(opts, "--x"),
		Y:         floatOpt(opts, "--y"),
		Width:     floatOpt(opts, "--width"),
		Height:    floatOpt(opts, "--height"),
		Name:      name,
		FillColor: fill,
	})
	submitAdd(api, fileId, pageId, rect)
}

func addText(opts docopt.Opts) {
	api := newApi(opts)
	defer api.Close()

	fileId, _ := opts.String("--file")
	pageId, _ := opts.String("--page")
	text, _ := opts.String("--text")
	fill, _ := opts.String("--fill")
	size, _ := opts.String("--size")
	fontSize, _ := strconv.Atoi(size)

	shape := penpot.NewText(&penpot.TextArgs{
		X:         floatOpt(opts, "--x"),
		Y:         floatOpt(opts, "--y"),
		Content:   text,
		FontSize:  fontSize,
		FillColor: fill,
	})
	submitAdd(api, fileId, pageId, shape)
}

func submitAdd(api *penpot.PenpotApi, fileId string, pageId string, obj map[string]any) {
	objId := penpot.NewId().String()
	err := api.WithEditingSession(context.Background(), fileId, func(sess *penpot.EditingSession) error {
		change := penpot.NewAddObjChange(objId, pageId, obj, "")
		result, err := sess.Submit(context.Background(), []penpot.Change{change})
		if err != nil {
			return err
		}
		Out.Printf("added object %s, file now at revision %d", objId, result.Revn)
		return nil
	})
	if err != nil {
		Err.Fatal(err)
	}
}

func delObj(opts docopt.Opts) {
	api := newApi(opts)
	defer api.Close()

	fileId, _ := opts.String("--file")
	pageId, _ := opts.String("--page")
	objectId, _ := opts.String("--object")

	err := api.WithEditingSession(context.Background(), fileId, func(sess *penpot.EditingSession) error {
		change := penpot.NewDelObjChange(objectId, pageId)
		result, err := sess.Submit(context.Background(), []penpot.Change{change})
		if err != nil {
			return err
		}
		Out.Printf("deleted object %s, file now at revision %d", objectId, result.Revn)
		return nil
	})
	if err != nil {
		Err.Fatal(err)
	}
}

func exportObject(opts docopt.Opts) {
	api := newApi(opts)
	defer api.Close()

	fileId, _ := opts.String("--file")
	pageId, _ := opts.String("--page")
	objectId, _ := opts.String("--object")
	exportType, _ := opts.String("--type")
	outPath, _ := opts.String("--out")

	data, err := api.ExportObject(context.Background(), &penpot.ExportArgs{
		FileId:   fileId,
		PageId:   pageId,
		ObjectId: objectId,
		Type:     exportType,
	})
	if err != nil {
		Err.Fatal(err)
	}
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		Err.Fatal(err)
	}
	Out.Printf("wrote %d bytes to %s", len(data), outPath)
}

func watch(opts docopt.Opts) {
	api := newApi(opts)
	defer api.Close()

	fileId, _ := opts.String("--file")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := api.WatchFile(ctx, fileId, func(event *penpot.FileEvent) {
		Out.Printf("%s file=%s revn=%d", event.Type, event.FileId, event.Revn)
	})
	if err != nil && ctx.Err() == nil {
		Err.Fatal(err)
	}
}

func serveImages(opts docopt.Opts) {
	port, _ := opts.String("--port")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	images := penpot.NewImageServer(fmt.Sprintf("127.0.0.1:%s", port))
	if err := images.Run(ctx); err != nil {
		Err.Fatal(err)
	}
}

func floatOpt(opts docopt.Opts, name string) float64 {
	s, _ := opts.String(name)
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

func printJson(value any) {
	encoded, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		Err.Fatal(err)
	}
	Out.Printf("%s", encoded)
}

func expandHome(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
