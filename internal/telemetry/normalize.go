package telemetry

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// TimestampLayout is used when the producer sends an epoch timestamp.
const TimestampLayout = "2006-01-02 15:04:05"

// Placeholders are the strings substituted for absent text fields.
type Placeholders struct {
	// NotAvailable is used for timestamps, process names and app details.
	NotAvailable string
	// Unknown is used for host model, OS and architecture.
	Unknown string
	// HostnameUnavailable is used for a missing hostname.
	HostnameUnavailable string
}

// DefaultPlaceholders returns the placeholder text the producer's own UI shows.
func DefaultPlaceholders() Placeholders {
	return Placeholders{
		NotAvailable:        "N/A",
		Unknown:             "Desconocido",
		HostnameUnavailable: "Nombre no disponible",
	}
}

// withDefaults fills empty placeholders from DefaultPlaceholders.
func (p Placeholders) withDefaults() Placeholders {
	d := DefaultPlaceholders()
	if p.NotAvailable == "" {
		p.NotAvailable = d.NotAvailable
	}
	if p.Unknown == "" {
		p.Unknown = d.Unknown
	}
	if p.HostnameUnavailable == "" {
		p.HostnameUnavailable = d.HostnameUnavailable
	}
	return p
}

// Normalizer maps raw, possibly partial producer payloads onto fully
// populated values. It never fails: absent, null or mistyped fields
// resolve to zero or a placeholder.
type Normalizer struct {
	ph Placeholders
}

// NewNormalizer creates a normalizer. Empty placeholders use the defaults.
func NewNormalizer(ph Placeholders) *Normalizer {
	return &Normalizer{ph: ph.withDefaults()}
}

// Placeholders returns the placeholder set in use.
func (n *Normalizer) Placeholders() Placeholders {
	return n.ph
}

// parse returns the root of raw, or an empty object for invalid JSON.
func parse(raw []byte) gjson.Result {
	if !gjson.ValidBytes(raw) {
		return gjson.Parse("{}")
	}
	return gjson.ParseBytes(raw)
}

// Normalize converts a system_update payload into a Snapshot.
func (n *Normalizer) Normalize(raw []byte) Snapshot {
	root := parse(raw)

	cpu := root.Get("cpu")
	mem := root.Get("memory")
	disk := root.Get("disk")
	netw := root.Get("network")
	procs := root.Get("processes")

	snap := Snapshot{
		Timestamp: n.timestamp(root.Get("timestamp")),
		CPU: CPU{
			Percent:      number(cpu.Get("percent")),
			Count:        integer(cpu.Get("count")),
			Cores:        integer(cpu.Get("cores")),
			FrequencyMHz: number(first(cpu, "frequency", "frequency_mhz")),
			Temperature:  reading(cpu.Get("temperature")),
			LoadAvg:      loadAvg(cpu.Get("load_avg")),
		},
		Memory: Memory{
			UsedBytes:   byteCount(mem.Get("used")),
			TotalBytes:  byteCount(mem.Get("total")),
			Percent:     number(mem.Get("percent")),
			SwapPercent: number(mem.Get("swap_percent")),
		},
		Disk: Disk{
			UsedBytes:  byteCount(disk.Get("used")),
			TotalBytes: byteCount(disk.Get("total")),
			Percent:    number(disk.Get("percent")),
		},
		Network: Network{
			BytesSent: byteCount(netw.Get("bytes_sent")),
			BytesRecv: byteCount(netw.Get("bytes_recv")),
		},
		Processes: Processes{
			TopByCPU: n.processList(procs.Get("top_cpu")),
			TopByMem: n.processList(procs.Get("top_mem")),
			Total:    integer(procs.Get("total")),
			Running:  integer(procs.Get("running")),
		},
		Host: n.host(root),
	}

	return snap
}

// HostInfo converts a /api/system-info payload into a Host. It accepts both
// that endpoint's shape (model, os) and the snapshot shape (system_model,
// os_info).
func (n *Normalizer) HostInfo(raw []byte) Host {
	return n.host(parse(raw))
}

func (n *Normalizer) host(root gjson.Result) Host {
	hostname := text(root.Get("hostname"), "")

	model := text(first(root, "system_model", "model"), "")
	if model == "" {
		model = hostname
	}
	if model == "" {
		model = n.ph.Unknown
	}
	if hostname == "" {
		hostname = n.ph.HostnameUnavailable
	}

	osInfo := first(root, "os_info", "os")
	arch := first(osInfo, "architecture")
	if !present(arch) {
		arch = root.Get("architecture")
	}

	return Host{
		Hostname:     hostname,
		SystemModel:  model,
		OSName:       text(osInfo.Get("os_name"), n.ph.Unknown),
		OSVersion:    text(osInfo.Get("os_version"), n.ph.Unknown),
		Architecture: text(arch, n.ph.Unknown),
	}
}

// processList maps a top_cpu/top_mem array. Entries that are not objects are
// skipped, and a repeated pid keeps only its first row.
func (n *Normalizer) processList(r gjson.Result) []ProcessInfo {
	out := []ProcessInfo{}
	if !r.IsArray() {
		return out
	}

	seen := make(map[int]bool)
	for _, item := range r.Array() {
		if !item.IsObject() {
			continue
		}
		pid := integer(item.Get("pid"))
		if seen[pid] {
			continue
		}
		seen[pid] = true
		out = append(out, ProcessInfo{
			PID:        pid,
			Name:       text(item.Get("name"), n.ph.NotAvailable),
			CPUPercent: number(first(item, "cpu", "cpu_percent")),
			MemPercent: number(first(item, "memory", "memory_percent", "mem_percent")),
		})
	}
	return out
}

// Alerts converts a new_alerts batch. A single object is treated as a batch
// of one.
func (n *Normalizer) Alerts(raw []byte) []AlertEvent {
	if !gjson.ValidBytes(raw) {
		return []AlertEvent{}
	}
	root := gjson.ParseBytes(raw)
	items := root.Array()
	if root.IsObject() {
		items = []gjson.Result{root}
	}

	out := make([]AlertEvent, 0, len(items))
	for _, item := range items {
		if !item.IsObject() {
			continue
		}
		out = append(out, AlertEvent{
			Title:     text(item.Get("title"), n.ph.NotAvailable),
			Message:   text(item.Get("message"), ""),
			Severity:  ParseSeverity(text(first(item, "type", "severity"), "")),
			Timestamp: n.timestamp(item.Get("timestamp")),
			Source:    SourceProducer,
		})
	}
	return out
}

// Apps converts the /apps envelope. ok is false when the producer reports
// failure; message carries its explanation. A payload without a success
// flag but with an apps array is accepted.
func (n *Normalizer) Apps(raw []byte) (apps []AppEntry, message string, ok bool) {
	root := parse(raw)
	list := root.Get("apps")
	success := root.Get("success")

	ok = success.Bool() || (!success.Exists() && list.IsArray())
	message = text(root.Get("message"), "")
	if !ok {
		return nil, message, false
	}

	apps = []AppEntry{}
	for _, item := range list.Array() {
		name := text(item.Get("name"), "")
		if name == "" {
			continue
		}
		size := number(item.Get("size_mb"))
		if !present(item.Get("size_mb")) {
			size = round2(number(item.Get("size")) / bytesPerMB)
		}
		apps = append(apps, AppEntry{
			Name:        name,
			Version:     text(item.Get("version"), n.ph.NotAvailable),
			SizeMB:      size,
			InstallDate: text(item.Get("install_date"), n.ph.NotAvailable),
		})
	}
	return apps, message, true
}

// timestamp accepts a preformatted string or epoch seconds.
func (n *Normalizer) timestamp(r gjson.Result) string {
	if r.Type == gjson.Number {
		sec, frac := math.Modf(r.Num)
		return time.Unix(int64(sec), int64(frac*1e9)).Format(TimestampLayout)
	}
	return text(r, n.ph.NotAvailable)
}

// present reports whether r holds a non-null value.
func present(r gjson.Result) bool {
	return r.Exists() && r.Type != gjson.Null
}

// first returns the first present child of obj among keys.
func first(obj gjson.Result, keys ...string) gjson.Result {
	for _, k := range keys {
		if r := obj.Get(k); present(r) {
			return r
		}
	}
	return gjson.Result{}
}

// number reads a JSON number or numeric string; anything else is 0.
func number(r gjson.Result) float64 {
	var v float64
	switch r.Type {
	case gjson.Number:
		v = r.Num
	case gjson.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(r.Str), 64)
		if err != nil {
			return 0
		}
		v = f
	default:
		return 0
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func integer(r gjson.Result) int {
	return int(number(r))
}

// byteCount reads a non-negative byte counter.
func byteCount(r gjson.Result) uint64 {
	if r.Type == gjson.Number && r.Num > 0 {
		return r.Uint()
	}
	if v := number(r); v > 0 {
		return uint64(v)
	}
	return 0
}

func reading(r gjson.Result) Reading {
	switch r.Type {
	case gjson.Number:
		return Known(number(r))
	case gjson.String:
		if _, err := strconv.ParseFloat(strings.TrimSpace(r.Str), 64); err == nil {
			return Known(number(r))
		}
	}
	return Reading{}
}

func loadAvg(r gjson.Result) [3]float64 {
	var out [3]float64
	for i, v := range r.Array() {
		if i >= len(out) {
			break
		}
		out[i] = number(v)
	}
	return out
}

// text reads a non-blank string (or the raw text of a number), else def.
func text(r gjson.Result, def string) string {
	switch r.Type {
	case gjson.String:
		if strings.TrimSpace(r.Str) != "" {
			return r.Str
		}
	case gjson.Number:
		return r.Raw
	}
	return def
}
