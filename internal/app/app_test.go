// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/depth_computer/internal/config"
	"github.com/relabs-tech/depth_computer/internal/env"
	"github.com/relabs-tech/depth_computer/internal/ms5803"
)

type fakeToken struct {
	err error
}

func (t *fakeToken) Wait() bool                     { return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Error() error                   { return t.err }

func (t *fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

type published struct {
	topic    string
	retained bool
	payload  []byte
}

// fakeClient records publishes. Other mqtt.Client methods are not used.
type fakeClient struct {
	mqtt.Client

	mu   sync.Mutex
	msgs []published
	err  error
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, published{topic: topic, retained: retained, payload: payload.([]byte)})
	return &fakeToken{err: c.err}
}

type fakeReader struct {
	sample env.Sample
	raw    env.Raw
	err    error
	rawErr error
}

func (f *fakeReader) ReadEnv(ctx context.Context) (env.Sample, error) {
	return f.sample, f.err
}

func (f *fakeReader) ReadRaw(ctx context.Context) (env.Raw, error) {
	return f.raw, f.rawErr
}

func testSample() env.Sample {
	r := ms5803.Reading{
		Temperature:     27.61,
		Pressure:        0.8486,
		TemperatureUnit: ms5803.Celsius,
		PressureUnit:    ms5803.Bar,
		Compensated:     ms5803.Compensated{Temperature: 2761, Pressure: 8486},
	}
	return env.NewSample("MS5803{test}", r, ms5803.OSR4096, ms5803.OSR256, time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC))
}

func TestPublishJSON(t *testing.T) {
	c := &fakeClient{}
	if err := publishJSON(c, "depth/env", testSample()); err != nil {
		t.Fatal(err)
	}
	if len(c.msgs) != 1 || c.msgs[0].topic != "depth/env" || !c.msgs[0].retained {
		t.Fatalf("msgs = %+v", c.msgs)
	}
	var got env.Sample
	if err := json.Unmarshal(c.msgs[0].payload, &got); err != nil {
		t.Fatal(err)
	}
	if got != testSample() {
		t.Errorf("got %+v", got)
	}

	c.err = errors.New("broker gone")
	if err := publishJSON(c, "depth/env", testSample()); err == nil || !strings.Contains(err.Error(), "depth/env") {
		t.Errorf("err = %v", err)
	}
}

func TestProduce(t *testing.T) {
	cfg := &config.Config{TopicEnv: "depth/env", TopicEnvRaw: "depth/env/raw"}
	r := &fakeReader{
		sample: testSample(),
		raw:    env.Raw{D1: 4298154, D2: 8077636},
	}
	c := &fakeClient{}

	s, err := produce(context.Background(), r, c, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if s.TempCenti != 2761 {
		t.Errorf("sample = %+v", s)
	}
	if len(c.msgs) != 2 || c.msgs[0].topic != "depth/env" || c.msgs[1].topic != "depth/env/raw" {
		t.Fatalf("msgs = %+v", c.msgs)
	}
	var raw env.Raw
	if err := json.Unmarshal(c.msgs[1].payload, &raw); err != nil {
		t.Fatal(err)
	}
	if raw.D1 != 4298154 || raw.D2 != 8077636 {
		t.Errorf("raw = %+v", raw)
	}
}

func TestProduceRawDisabled(t *testing.T) {
	cfg := &config.Config{TopicEnv: "depth/env"}
	c := &fakeClient{}
	if _, err := produce(context.Background(), &fakeReader{sample: testSample()}, c, cfg); err != nil {
		t.Fatal(err)
	}
	if len(c.msgs) != 1 {
		t.Errorf("msgs = %+v", c.msgs)
	}
}

func TestProduceReadError(t *testing.T) {
	cfg := &config.Config{TopicEnv: "depth/env"}
	c := &fakeClient{}
	_, err := produce(context.Background(), &fakeReader{err: ms5803.ErrNeedsReset}, c, cfg)
	if !errors.Is(err, ms5803.ErrNeedsReset) {
		t.Fatalf("err = %v", err)
	}
	if len(c.msgs) != 0 {
		t.Errorf("published on error: %+v", c.msgs)
	}
}

func TestFormatSample(t *testing.T) {
	line := formatSample("ENV", testSample())
	for _, want := range []string{"[ENV]", "27.61", "848.6 mbar", "0.8486 bar", "celsius", "bar 0.8486"} {
		if !strings.Contains(line, want) {
			t.Errorf("%q missing %q", line, want)
		}
	}

	raw := formatRaw(env.Raw{D1: 1, D2: 2, Calibration: ms5803.Calibration{0, 1, 2, 3, 4, 5, 6}})
	if !strings.Contains(raw, "C=[1 2 3 4 5 6]") {
		t.Errorf("formatRaw = %q", raw)
	}
}
