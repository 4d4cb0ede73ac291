package mobile

import (
	"encoding/json"
	"strings"
	"testing"
)

const testYAML = `
server:
  host: mc.test
  java_port: 25565
  bedrock_port: 19132
poll:
  check_on_boot: false
api:
  port: 0
metrics:
  enabled: false
`

func TestLifecycle(t *testing.T) {
	if IsRunning() {
		t.Fatal("running before Start")
	}
	if got := GetView(); got != `{"running":false}` {
		t.Errorf("GetView before Start = %s", got)
	}

	if err := Start(testYAML); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer Stop()

	if err := Start(testYAML); err == nil {
		t.Error("second Start succeeded")
	}
	if !IsRunning() || GetAPIPort() == 0 {
		t.Errorf("running = %v, port = %d", IsRunning(), GetAPIPort())
	}

	var addrs map[string]string
	if err := json.Unmarshal([]byte(GetAddresses()), &addrs); err != nil {
		t.Fatalf("GetAddresses: %v", err)
	}
	if addrs["java"] != "mc.test:25565" || addrs["bedrock"] != "mc.test:19132" {
		t.Errorf("addresses = %v", addrs)
	}

	if !strings.Contains(GetStatus(), `"running":true`) {
		t.Errorf("GetStatus = %s", GetStatus())
	}
	if !strings.Contains(GetView(), `"last_update":"never"`) {
		t.Errorf("GetView = %s", GetView())
	}

	Stop()
	if IsRunning() || GetAPIPort() != 0 {
		t.Error("still running after Stop")
	}
	if !strings.Contains(Refresh(), "not running") {
		t.Errorf("Refresh after Stop = %s", Refresh())
	}
}

func TestStartInvalidConfig(t *testing.T) {
	if err := Start("poll:\n  interval: -1s\n"); err == nil {
		Stop()
		t.Fatal("Start accepted a negative poll interval")
	}
	if IsRunning() {
		t.Error("running after failed Start")
	}
}
