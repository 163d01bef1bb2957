package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joshp123/gridgate/internal/config"
	"github.com/joshp123/gridgate/internal/core"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client := &apiClient{baseURL: baseURL(resolveAddr())}

	switch os.Args[1] {
	case "plugins":
		pluginsCmd(ctx, client, os.Args[2:])
	case "eddi":
		statusCmd(ctx, client, "/api/myenergi/status")
	case "inverter":
		statusCmd(ctx, client, "/api/foxess/status")
	default:
		usage()
		os.Exit(2)
	}
}

type apiClient struct {
	baseURL string
}

func (c *apiClient) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return json.Unmarshal(body, out)
}

func pluginsCmd(ctx context.Context, client *apiClient, args []string) {
	if len(args) < 1 {
		usage()
		os.Exit(2)
	}

	switch args[0] {
	case "list":
		var summaries []core.PluginSummary
		if err := client.getJSON(ctx, "/api/plugins", &summaries); err != nil {
			fatal("list plugins", err)
		}
		for _, plugin := range summaries {
			fmt.Printf("%s\t%s\t%s\t%s\n", plugin.PluginID, plugin.DisplayName, plugin.Version, plugin.Status)
		}
	case "describe":
		if len(args) < 2 {
			fatal("describe", fmt.Errorf("missing plugin id"))
		}
		var descriptor core.PluginDescriptor
		if err := client.getJSON(ctx, "/api/plugins/"+args[1], &descriptor); err != nil {
			fatal("describe plugin", err)
		}
		fmt.Printf("id: %s\n", descriptor.PluginID)
		fmt.Printf("name: %s\n", descriptor.DisplayName)
		fmt.Printf("version: %s\n", descriptor.Version)
		fmt.Printf("status: %s\n", descriptor.Status)
		if descriptor.HealthMessage != "" {
			fmt.Printf("health: %s\n", descriptor.HealthMessage)
		}
		fmt.Println("endpoints:")
		for _, endpoint := range descriptor.Endpoints {
			fmt.Printf("  - %s\n", endpoint)
		}
		fmt.Println("dashboards:")
		for _, dash := range descriptor.Dashboards {
			fmt.Printf("  - %s (%s)\n", dash.Name, dash.Path)
		}
		fmt.Println("agents_md:")
		fmt.Println(descriptor.AgentsMD)
	default:
		usage()
		os.Exit(2)
	}
}

func statusCmd(ctx context.Context, client *apiClient, path string) {
	var snapshot map[string]any
	if err := client.getJSON(ctx, path, &snapshot); err != nil {
		fatal("status", err)
	}
	encoded, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		fatal("status", err)
	}
	fmt.Println(string(encoded))
}

func resolveAddr() string {
	if value := os.Getenv("GRIDGATE_HTTP_ADDR"); value != "" {
		return value
	}
	for _, path := range configSearchPaths() {
		if addr := addrFromConfig(path); addr != "" {
			return addr
		}
	}
	return "localhost:8080"
}

func configSearchPaths() []string {
	paths := []string{config.DefaultPath}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		paths = append(paths, filepath.Join(home, ".config", "gridgate", "config.yaml"))
	}
	return paths
}

func addrFromConfig(path string) string {
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	cfg, err := config.Load(path)
	if err != nil {
		return ""
	}
	return cfg.HTTPAddr
}

func baseURL(addr string) string {
	if strings.Contains(addr, "://") {
		return strings.TrimRight(addr, "/")
	}
	return "http://" + addr
}

func fatal(action string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", action, err)
	os.Exit(1)
}

func usage() {
	fmt.Println("gridgate-cli <command> [args]")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  plugins list")
	fmt.Println("  plugins describe <plugin_id>")
	fmt.Println("  eddi status")
	fmt.Println("  inverter status")
}
