package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/getlantern/systray"

	"github.com/b0ase/path402/apps/mcstatus/internal/presenter"
)

var Version = "0.1.0"

const (
	daemonPort   = 8425
	pollInterval = 3 * time.Second
)

type trayApp struct {
	mu         sync.Mutex
	daemonCmd  *exec.Cmd
	ownsDaemon bool
	configPath string

	// Header
	mTitle  *systray.MenuItem
	mUptime *systray.MenuItem

	// Server section
	mServerHeader *systray.MenuItem
	mStatus       *systray.MenuItem
	mPlayers      *systray.MenuItem
	mPing         *systray.MenuItem
	mMOTD         *systray.MenuItem
	mVersion      *systray.MenuItem
	mLastUpdate   *systray.MenuItem

	// Connect section
	mConnectHeader *systray.MenuItem
	mJava          *systray.MenuItem
	mBedrock       *systray.MenuItem

	// Actions
	mCheck     *systray.MenuItem
	mDashboard *systray.MenuItem
	mQuit      *systray.MenuItem
}

type health struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	UptimeMs int64  `json:"uptime_ms"`
}

func main() {
	app := &trayApp{}

	for i, arg := range os.Args[1:] {
		if arg == "-config" && i+1 < len(os.Args)-1 {
			app.configPath = os.Args[i+2]
		}
	}

	systray.Run(app.onReady, app.onExit)
}

func (a *trayApp) onReady() {
	systray.SetIcon(iconData)
	systray.SetTooltip("mcstatus v" + Version)

	// ── Header ──────────────────────────────────
	a.mTitle = systray.AddMenuItem("⛏ mcstatus v"+Version, "")
	a.mTitle.Disable()
	a.mUptime = systray.AddMenuItem("     ⏱ Uptime: starting...", "")
	a.mUptime.Disable()

	systray.AddSeparator()

	// ── Server ──────────────────────────────────
	a.mServerHeader = systray.AddMenuItem("🟩 SERVER", "")
	a.mServerHeader.Disable()
	a.mStatus = systray.AddMenuItem("     🔶 Status: Checking...", "")
	a.mStatus.Disable()
	a.mPlayers = systray.AddMenuItem("     👥 Players: --", "")
	a.mPlayers.Disable()
	a.mPing = systray.AddMenuItem("     📶 Ping: --", "")
	a.mPing.Disable()
	a.mMOTD = systray.AddMenuItem("     💬 MOTD: --", "")
	a.mMOTD.Disable()
	a.mVersion = systray.AddMenuItem("     🏷 Version: --", "")
	a.mVersion.Disable()
	a.mLastUpdate = systray.AddMenuItem("     🕑 Updated: --", "")
	a.mLastUpdate.Disable()

	systray.AddSeparator()

	// ── Connect ─────────────────────────────────
	a.mConnectHeader = systray.AddMenuItem("🔌 CONNECT", "")
	a.mConnectHeader.Disable()
	a.mJava = systray.AddMenuItem("     📋 Java: --", "Copy Java address to clipboard")
	a.mBedrock = systray.AddMenuItem("     📋 Bedrock: --", "Copy Bedrock address to clipboard")

	systray.AddSeparator()

	// ── Actions ─────────────────────────────────
	a.mCheck = systray.AddMenuItem("🔄 Check now", "Query the status providers now")
	a.mDashboard = systray.AddMenuItem("🖥  Open Status Page", "Open the status page in browser")

	systray.AddSeparator()

	a.mQuit = systray.AddMenuItem("Quit mcstatus", "Stop daemon and quit")

	// Start daemon if not already running
	if !a.isDaemonRunning() {
		a.startDaemon()
	}

	go a.pollLoop()
	go a.handleClicks()
}

func (a *trayApp) onExit() {
	a.stopDaemon()
}

func apiURL(path string) string {
	return fmt.Sprintf("http://127.0.0.1:%d%s", daemonPort, path)
}

func (a *trayApp) isDaemonRunning() bool {
	resp, err := http.Get(apiURL("/health"))
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == 200
}

func (a *trayApp) startDaemon() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.daemonCmd != nil {
		return
	}

	binaryPath := "mcstatusd"
	if exe, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(exe), "mcstatusd")
		if _, err := os.Stat(candidate); err == nil {
			binaryPath = candidate
		}
	}

	args := []string{}
	if a.configPath != "" {
		args = append(args, "-config", a.configPath)
	}

	a.daemonCmd = exec.Command(binaryPath, args...)
	a.daemonCmd.Stdout = os.Stdout
	a.daemonCmd.Stderr = os.Stderr
	a.daemonCmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := a.daemonCmd.Start(); err != nil {
		log.Printf("[tray] Failed to start daemon: %v", err)
		a.daemonCmd = nil
		return
	}

	a.ownsDaemon = true
	log.Printf("[tray] Started daemon (PID %d)", a.daemonCmd.Process.Pid)

	cmd := a.daemonCmd
	go func() {
		if err := cmd.Wait(); err != nil {
			log.Printf("[tray] Daemon exited: %v", err)
		}
		a.mu.Lock()
		if a.daemonCmd == cmd {
			a.daemonCmd = nil
			a.ownsDaemon = false
		}
		a.mu.Unlock()
	}()

	for i := 0; i < 30; i++ {
		time.Sleep(500 * time.Millisecond)
		if a.isDaemonRunning() {
			log.Println("[tray] Daemon is ready")
			return
		}
	}
	log.Println("[tray] WARNING: Daemon did not become ready within 15s")
}

func (a *trayApp) stopDaemon() {
	a.mu.Lock()
	cmd := a.daemonCmd
	owns := a.ownsDaemon
	a.mu.Unlock()

	if cmd == nil || !owns {
		return
	}

	log.Println("[tray] Stopping daemon...")
	cmd.Process.Signal(syscall.SIGTERM)

	// The Wait goroutine started with the daemon reaps the process and
	// clears daemonCmd.
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		a.mu.Lock()
		gone := a.daemonCmd != cmd
		a.mu.Unlock()
		if gone {
			log.Println("[tray] Daemon stopped cleanly")
			return
		}
		time.Sleep(100 * time.Millisecond)
	}
	log.Println("[tray] Daemon did not stop, sending SIGKILL")
	cmd.Process.Kill()
}

func (a *trayApp) pollLoop() {
	a.updateStatus()
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-ticker.C:
			a.updateStatus()
		case <-sigCh:
			systray.Quit()
			return
		}
	}
}

func (a *trayApp) updateStatus() {
	v := a.fetchView()
	if v == nil {
		a.mStatus.SetTitle("     🔶 Status: Daemon Offline")
		a.mPlayers.SetTitle("     👥 Players: --")
		a.mPing.SetTitle("     📶 Ping: --")
		a.mMOTD.SetTitle("     💬 MOTD: --")
		a.mVersion.SetTitle("     🏷 Version: --")
		a.mLastUpdate.SetTitle("     🕑 Updated: --")
		a.mUptime.SetTitle("     ⏱ Uptime: offline")
		a.mCheck.Disable()
		systray.SetTooltip("mcstatus - Daemon Offline")
		return
	}

	switch v.Indicator {
	case presenter.IndicatorOnline:
		a.mStatus.SetTitle("     🟢 " + v.StatusText)
	case presenter.IndicatorLoading:
		a.mStatus.SetTitle("     🔶 " + v.Headline)
	default:
		a.mStatus.SetTitle("     🔴 " + v.StatusSub)
	}

	a.mPlayers.SetTitle(fmt.Sprintf("     👥 Players: %s/%s", v.PlayerCount, v.MaxPlayers))
	a.mPing.SetTitle("     📶 Ping: " + v.Ping)
	a.mMOTD.SetTitle("     💬 " + truncate(firstLine(v.MOTD), 40))
	a.mVersion.SetTitle("     🏷 Version: " + v.Version)
	a.mLastUpdate.SetTitle("     🕑 Updated: " + v.LastUpdate)
	a.mJava.SetTitle("     📋 Java: " + v.Addresses.Java)
	a.mBedrock.SetTitle("     📋 Bedrock: " + v.Addresses.Bedrock)

	a.mCheck.SetTitle("🔄 " + v.RefreshLabel)
	if v.Checking {
		a.mCheck.Disable()
	} else {
		a.mCheck.Enable()
	}

	if h := a.fetchHealth(); h != nil {
		a.mUptime.SetTitle(fmt.Sprintf("     ⏱ %s", formatUptime(h.UptimeMs)))
	}

	systray.SetTooltip(fmt.Sprintf("mcstatus - %s | %s players | %s",
		v.StatusText, v.PlayerCount, v.Ping))
}

func (a *trayApp) fetchView() *presenter.View {
	data, err := fetchJSON(apiURL("/api/view"))
	if err != nil {
		return nil
	}
	var v presenter.View
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	return &v
}

func (a *trayApp) fetchHealth() *health {
	data, err := fetchJSON(apiURL("/health"))
	if err != nil {
		return nil
	}
	var h health
	if err := json.Unmarshal(data, &h); err != nil {
		return nil
	}
	return &h
}

func (a *trayApp) fetchAddresses() *presenter.Addresses {
	data, err := fetchJSON(apiURL("/api/addresses"))
	if err != nil {
		return nil
	}
	var addrs presenter.Addresses
	if err := json.Unmarshal(data, &addrs); err != nil {
		return nil
	}
	return &addrs
}

// refresh asks the daemon for a manual check. It blocks until the check
// completes, so it runs off the click loop.
func (a *trayApp) refresh() {
	a.mCheck.Disable()
	a.mCheck.SetTitle("🔄 Checking...")
	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Post(apiURL("/api/refresh"), "application/json", nil)
	if err != nil {
		log.Printf("[tray] Refresh failed: %v", err)
	} else {
		if resp.StatusCode == http.StatusConflict {
			log.Println("[tray] Check already in progress")
		}
		resp.Body.Close()
	}
	a.updateStatus()
}

func fetchJSON(url string) ([]byte, error) {
	client := &http.Client{Timeout: 3 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}

func formatUptime(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	hours := int(d.Hours())
	mins := int(d.Minutes()) % 60

	if hours >= 24 {
		days := hours / 24
		hours = hours % 24
		return fmt.Sprintf("%dd %dh %dm", days, hours, mins)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, mins)
	}
	return fmt.Sprintf("%dm", mins)
}

func (a *trayApp) handleClicks() {
	for {
		select {
		case <-a.mCheck.ClickedCh:
			go a.refresh()

		case <-a.mDashboard.ClickedCh:
			openBrowser(apiURL("/"))

		case <-a.mJava.ClickedCh:
			if addrs := a.fetchAddresses(); addrs != nil {
				copyToClipboard(addrs.Java)
			}

		case <-a.mBedrock.ClickedCh:
			if addrs := a.fetchAddresses(); addrs != nil {
				copyToClipboard(addrs.Bedrock)
			}

		case <-a.mQuit.ClickedCh:
			systray.Quit()
			return
		}
	}
}

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	default:
		cmd = exec.Command("open", url)
	}
	cmd.Start()
}

func copyToClipboard(text string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("pbcopy")
	case "linux":
		cmd = exec.Command("xclip", "-selection", "clipboard")
	default:
		return
	}
	cmd.Stdin = strings.NewReader(text)
	cmd.Run()
}
