// Package iface queries and mutates the state of wireless network interfaces
// through the iw and ip utilities.
package iface

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"net"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rftools/ctx/internal/core/domain"
)

const (
	prepareAttempts = 3
	prepareBackoff  = 250 * time.Millisecond
)

// runner executes an external command and returns its combined output.
// Injectable so tests run without hardware.
type runner func(name string, args ...string) ([]byte, error)

func runCmd(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).CombinedOutput()
}

// Manager stages wireless interfaces for raw frame injection and restores
// them afterwards. Adapter state transitions race against network managers
// and supplicants, so staging steps retry transient failures a bounded
// number of times before giving up.
type Manager struct {
	run      runner
	attempts int
	backoff  time.Duration
	log      *logrus.Entry
}

// NewManager returns a Manager using the system iw/ip utilities.
func NewManager() *Manager {
	return &Manager{
		run:      runCmd,
		attempts: prepareAttempts,
		backoff:  prepareBackoff,
		log:      logrus.WithField("component", "iface"),
	}
}

// CapabilityCheck verifies the named interface exists, exposes an 802.11
// stack, and supports monitor mode and injection. Failures here are fatal
// preconditions and are never retried.
func (m *Manager) CapabilityCheck(name string) (domain.CapabilityReport, error) {
	report := domain.CapabilityReport{Interface: name}

	phy, err := m.phyForInterface(name)
	if err != nil {
		return report, err
	}
	report.Phy = phy

	out, err := m.run("iw", "phy", phy, "info")
	if err != nil {
		return report, fmt.Errorf("query capabilities of %s: %w", phy, err)
	}

	report.SupportsMonitor = phySupportsMonitor(out)
	// mac80211 drivers that expose a monitor mode accept injected frames;
	// there is no separate capability bit to probe.
	report.SupportsInjection = report.SupportsMonitor

	if !report.SupportsMonitor {
		return report, &domain.UnsupportedAdapterError{Interface: name, Missing: "monitor mode"}
	}
	return report, nil
}

// Prepare stages the interface for injection on the given frequency:
// link down, switch to monitor mode, link up, set frequency. Each step is
// retried on transient "busy" style errors with short backoff; anything else
// fails fast.
func (m *Manager) Prepare(ctx context.Context, name string, freqMHz int) error {
	steps := []struct {
		desc string
		args []string
	}{
		{"bring link down", []string{"ip", "link", "set", name, "down"}},
		{"switch to monitor mode", []string{"iw", name, "set", "type", "monitor"}},
		{"bring link up", []string{"ip", "link", "set", name, "up"}},
		{"set frequency", []string{"iw", "dev", name, "set", "freq", strconv.Itoa(freqMHz)}},
	}

	for _, s := range steps {
		m.log.WithField("interface", name).Debugf("staging: %s", s.desc)
		if err := m.retryStep(ctx, s.args); err != nil {
			if s.desc == "set frequency" {
				return &domain.FrequencySetError{Interface: name, FrequencyMHz: freqMHz, Err: err}
			}
			return &domain.ModeTransitionError{Interface: name, Step: s.desc, Err: err}
		}
	}
	return nil
}

// Restore attempts to return the interface to managed mode. Best effort:
// failures are logged and never escalate, this is cleanup, not correctness.
func (m *Manager) Restore(name string) {
	m.log.WithField("interface", name).Debug("restoring managed mode")
	cmds := [][]string{
		{"ip", "link", "set", name, "down"},
		{"iw", name, "set", "type", "managed"},
		{"ip", "link", "set", name, "up"},
	}
	for _, args := range cmds {
		if out, err := m.run(args[0], args[1:]...); err != nil {
			m.log.WithField("interface", name).Warnf("restore step %v failed: %v (%s)",
				args, err, strings.TrimSpace(string(out)))
		}
	}
}

var (
	reAddr    = regexp.MustCompile(`\baddr ([0-9a-fA-F:]{17})`)
	reType    = regexp.MustCompile(`\btype (\w+)`)
	reChannel = regexp.MustCompile(`\bchannel (\d+) \((\d+) MHz`)
)

// Info returns a snapshot of the interface as reported by iw.
func (m *Manager) Info(name string) (domain.InterfaceState, error) {
	state := domain.InterfaceState{Name: name, Mode: "unknown"}

	out, err := m.run("iw", "dev", name, "info")
	if err != nil {
		return state, fmt.Errorf("%w: %s", domain.ErrInterfaceNotFound, name)
	}

	if phy, err := m.phyForInterface(name); err == nil {
		state.Phy = phy
	}
	if mch := reAddr.FindSubmatch(out); mch != nil {
		if hw, err := net.ParseMAC(string(mch[1])); err == nil {
			state.HardwareAddr = hw
		}
	}
	if mch := reType.FindSubmatch(out); mch != nil {
		state.Mode = string(mch[1])
	}
	if mch := reChannel.FindSubmatch(out); mch != nil {
		state.Channel, _ = strconv.Atoi(string(mch[1]))
		state.FrequencyMHz, _ = strconv.Atoi(string(mch[2]))
	}
	return state, nil
}

// ListInterfaces enumerates every interface with an 802.11 stack.
func (m *Manager) ListInterfaces() ([]domain.InterfaceState, error) {
	out, err := m.run("iw", "dev")
	if err != nil {
		return nil, fmt.Errorf("enumerate wireless interfaces: %w", err)
	}

	var states []domain.InterfaceState
	for _, name := range parseInterfaceNames(out) {
		state, err := m.Info(name)
		if err != nil {
			continue
		}
		states = append(states, state)
	}
	return states, nil
}

// retryStep runs one staging command, retrying transient failures with
// backoff up to the attempt budget.
func (m *Manager) retryStep(ctx context.Context, args []string) error {
	var lastErr error
	for attempt := 1; attempt <= m.attempts; attempt++ {
		out, err := m.run(args[0], args[1:]...)
		if err == nil {
			return nil
		}
		lastErr = fmt.Errorf("%v: %w (%s)", args, err, strings.TrimSpace(string(out)))
		if !isTransient(out) {
			return lastErr
		}
		if attempt == m.attempts {
			break
		}
		m.log.Debugf("transient failure on %v (attempt %d/%d), backing off", args, attempt, m.attempts)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(m.backoff):
		}
	}
	return fmt.Errorf("exhausted %d attempts: %w", m.attempts, lastErr)
}

// isTransient reports whether command output looks like a retryable
// busy/in-progress condition rather than a hard failure.
func isTransient(out []byte) bool {
	s := strings.ToLower(string(out))
	for _, marker := range []string{"busy", "in progress", "try again"} {
		if strings.Contains(s, marker) {
			return true
		}
	}
	return false
}

// phyForInterface maps an interface name to its wiphy via `iw dev`.
func (m *Manager) phyForInterface(name string) (string, error) {
	out, err := m.run("iw", "dev")
	if err != nil {
		return "", fmt.Errorf("query wireless stack: %w", err)
	}

	scanner := bufio.NewScanner(bytes.NewReader(out))
	currentPhy := ""
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "phy#") {
			currentPhy = strings.Replace(line, "#", "", 1)
		} else if strings.HasPrefix(line, "Interface ") && strings.TrimPrefix(line, "Interface ") == name {
			return currentPhy, nil
		}
	}
	return "", fmt.Errorf("%w: %s", domain.ErrInterfaceNotFound, name)
}

// phySupportsMonitor scans `iw phy <phy> info` output for monitor mode in
// the supported interface modes section.
func phySupportsMonitor(out []byte) bool {
	scanner := bufio.NewScanner(bytes.NewReader(out))
	inModes := false
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "Supported interface modes") {
			inModes = true
			continue
		}
		if inModes {
			if !strings.HasPrefix(line, "*") {
				inModes = false
				continue
			}
			if strings.TrimSpace(strings.TrimPrefix(line, "*")) == "monitor" {
				return true
			}
		}
	}
	return false
}

func parseInterfaceNames(out []byte) []string {
	var names []string
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "Interface ") {
			names = append(names, strings.TrimPrefix(line, "Interface "))
		}
	}
	return names
}
