package device

import (
	"os"
	"os/user"
	"runtime"
	"strings"

	"github.com/denisbrodbeck/machineid"
	"github.com/shirou/gopsutil/v3/host"
)

// appID salts the protected machine id so it is not the raw host id.
const appID = "hemu"

// Info describes the local machine.
type Info struct {
	Hostname  string `json:"hostname"`
	Username  string `json:"username"`
	OSVersion string `json:"os_version"`
	Platform  string `json:"platform"`
	MachineID string `json:"machine_id"`
}

// Current collects Info. Lookups that fail leave their field empty.
func Current() Info {
	info := Info{
		Platform: runtime.GOOS + "/" + runtime.GOARCH,
	}

	if name, err := os.Hostname(); err == nil {
		info.Hostname = name
	}
	if u, err := user.Current(); err == nil {
		info.Username = u.Username
	}
	if h, err := host.Info(); err == nil {
		info.OSVersion = osVersion(h)
	}

	id, err := machineid.ProtectedID(appID)
	if err != nil {
		id, err = machineid.ID()
	}
	if err == nil {
		info.MachineID = id
	}

	return info
}

// osVersion renders e.g. "darwin 14.4.1" or "ubuntu 22.04 (linux 6.5.0)".
func osVersion(h *host.InfoStat) string {
	name := h.Platform
	if name == "" {
		name = h.OS
	}
	v := strings.TrimSpace(name + " " + h.PlatformVersion)
	if h.KernelVersion != "" && h.OS != "" && h.OS != name {
		v += " (" + h.OS + " " + h.KernelVersion + ")"
	}
	return v
}
