/*
Package main is the Agrow terminal client.

It restores a persisted session (or walks through login/registration),
starts the connectivity monitor, and then dispatches commands to the tool
panels: assistant chat, weather, yield prediction, disease analysis and the
knowledge library. Every feature stays usable when the gateway is down; the
results are simply marked as demo-mode.
*/
package main

import (
	"bufio"
	"context"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"agrow/internal/assistant"
	"agrow/internal/configs"
	"agrow/internal/pkg/logx"
)

func main() {
	cfg, err := configs.LoadClient()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logx.Init(false)

	store, err := assistant.OpenSessionStore(cfg.StatePath, cfg.SessionTTL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to open session store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	monitor := assistant.NewMonitor(cfg.BackendURL, nil)
	if err := monitor.Start(cfg.ProbeInterval); err != nil {
		logx.Warn("connectivity monitor could not be scheduled", "error", err.Error())
	}
	defer monitor.Stop()

	client := assistant.New(assistant.Options{
		BaseURL: cfg.BackendURL,
		Monitor: monitor,
		Store:   store,
	})

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	sim := assistant.NewSimulator(rng, nil)

	ctx := context.Background()
	in := bufio.NewScanner(os.Stdin)

	fmt.Println("Agrow AI - The Intelligent Companion in Agriculture")

	if sess, err := client.Restore(); err != nil {
		logx.Warn("could not restore session", "error", err.Error())
	} else if sess != nil {
		fmt.Printf("Welcome back, %s %s (%s plan).\n", sess.User.FirstName, sess.User.LastName, sess.User.Plan)
	}

	if client.Session() == nil {
		if !authenticate(ctx, client, in) {
			return
		}
	}

	printHelp()

	for {
		fmt.Printf("[%s] > ", monitor.Status())
		if !in.Scan() {
			return
		}
		line := strings.TrimSpace(in.Text())
		if line == "" {
			continue
		}

		cmd, rest, _ := strings.Cut(line, " ")
		switch cmd {
		case "quit", "exit":
			return
		case "help":
			printHelp()
		case "status":
			fmt.Printf("Backend: %s\n", monitor.Probe(ctx))
		case "logout":
			if err := client.Logout(); err != nil {
				logx.Warn("logout could not clear the session store", "error", err.Error())
			}
			fmt.Println("Logged out.")
			if !authenticate(ctx, client, in) {
				return
			}
		case "tools":
			for _, t := range assistant.Tools() {
				info := t.Info()
				fmt.Printf("  %-10s %s - %s\n", info.ID, info.Title, info.Description)
			}
		case "chat":
			runTool(ctx, assistant.ToolAssistant, rest, cfg, client, sim, in)
		case "weather":
			runTool(ctx, assistant.ToolWeather, rest, cfg, client, sim, in)
		case "predict":
			runTool(ctx, assistant.ToolPrediction, rest, cfg, client, sim, in)
		case "diagnose":
			runTool(ctx, assistant.ToolAnalysis, rest, cfg, client, sim, in)
		case "library":
			runTool(ctx, assistant.ToolLibrary, rest, cfg, client, sim, in)
		default:
			fmt.Println("Unknown command; try 'help'.")
		}
	}
}

func authenticate(ctx context.Context, client *assistant.Client, in *bufio.Scanner) bool {
	for {
		fmt.Print("login or register? ")
		if !in.Scan() {
			return false
		}

		var result *assistant.AuthResult
		var err error

		switch strings.TrimSpace(in.Text()) {
		case "login":
			email := prompt(in, "Email: ")
			password := prompt(in, "Password: ")
			result, err = client.Login(ctx, email, password)
		case "register":
			first := prompt(in, "First name: ")
			last := prompt(in, "Last name: ")
			email := prompt(in, "Email: ")
			password := prompt(in, "Password: ")
			result, err = client.Register(ctx, first, last, email, password)
		default:
			continue
		}

		if err != nil {
			logx.Warn("session could not be persisted", "error", err.Error())
		}
		if result == nil {
			continue
		}

		u := result.Session.User
		fmt.Printf("Signed in as %s %s (%s plan).\n", u.FirstName, u.LastName, u.Plan)
		if result.Offline {
			fmt.Println(result.Banner)
		}
		return true
	}
}

// runTool dispatches to one tool panel. The switch is exhaustive over the
// closed tool set.
func runTool(ctx context.Context, tool assistant.Tool, arg string, cfg *configs.ClientConfig,
	client *assistant.Client, sim *assistant.Simulator, in *bufio.Scanner) {
	switch tool {
	case assistant.ToolAssistant:
		message := arg
		if message == "" {
			message = prompt(in, "Ask Agrow AI anything: ")
		}
		if message == "" {
			return
		}
		reply := client.SendChat(ctx, message)
		fmt.Println(reply.Text)

	case assistant.ToolWeather:
		lat, lon := cfg.DefaultLatitude, cfg.DefaultLongitude
		if fields := strings.Fields(arg); len(fields) == 2 {
			lat, lon = fields[0], fields[1]
		}
		result := client.FetchWeather(ctx, lat, lon)
		s := result.Snapshot
		fmt.Printf("%s: %.0f°C, humidity %.0f%%, wind %.0f km/h, precipitation %.1f mm\n",
			s.LocationLabel, s.TemperatureC, s.HumidityPct, s.WindKph, s.PrecipitationMm)
		if result.Unavailable {
			fmt.Println("Weather service unavailable; showing demo data.")
		}

	case assistant.ToolPrediction:
		fields := strings.Fields(arg)
		if len(fields) != 2 {
			fmt.Println("usage: predict <crop> <hectares>")
			return
		}
		area, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			fmt.Println("usage: predict <crop> <hectares>")
			return
		}
		fmt.Println("Analyzing...")
		prediction, err := sim.PredictYield(ctx, fields[0], area)
		if err != nil {
			return
		}
		fmt.Printf("Estimated yield for %.1f ha of %s: %.1f t (seasonal factor %.2f)\n",
			prediction.AreaHectares, prediction.Crop, prediction.EstimatedTons, prediction.Multiplier)

	case assistant.ToolAnalysis:
		if arg == "" {
			fmt.Println("usage: diagnose <image-file>")
			return
		}
		fmt.Println("Analyzing image...")
		diagnosis, err := sim.AnalyzeCrop(ctx, arg)
		if err != nil {
			return
		}
		fmt.Printf("%s (%d%% confidence)\n%s\n", diagnosis.Condition, diagnosis.Confidence, diagnosis.Advice)

	case assistant.ToolLibrary:
		results := assistant.SearchArticles(arg)
		if len(results) == 0 {
			fmt.Println("No articles found matching your search.")
			return
		}
		for _, a := range results {
			fmt.Printf("  [%s] %s - %s\n", a.Category, a.Title, a.Description)
		}
	}
}

func prompt(in *bufio.Scanner, label string) string {
	fmt.Print(label)
	if !in.Scan() {
		return ""
	}
	return strings.TrimSpace(in.Text())
}

func printHelp() {
	fmt.Println(`Commands:
  chat [message]        ask the AI assistant
  weather [lat lon]     current weather (defaults to your configured location)
  predict <crop> <ha>   simulated yield forecast
  diagnose <image>      simulated crop disease analysis
  library [query]       search the knowledge library
  tools                 list tool panels
  status                probe the backend now
  logout                clear the stored session
  quit                  exit`)
}
