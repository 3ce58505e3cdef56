// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"log"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/depth_computer/internal/env"
)

// connectMQTT connects to the broker or returns the connect error.
func connectMQTT(broker, clientID string) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("MQTT connect %s: %w", broker, token.Error())
	}
	log.Printf("connected to MQTT broker at %s as %s", broker, clientID)
	return client, nil
}

// publishJSON marshals v and publishes it retained at QoS 0.
func publishJSON(client mqtt.Client, topic string, v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("json marshal (%s): %w", topic, err)
	}
	if token := client.Publish(topic, 0, true, payload); token.Wait() && token.Error() != nil {
		return fmt.Errorf("MQTT publish (%s): %w", topic, token.Error())
	}
	return nil
}

// subscribeSamples decodes every message on topic as an env.Sample.
func subscribeSamples(client mqtt.Client, topic, who string, fn func(env.Sample)) error {
	token := client.Subscribe(topic, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var s env.Sample
		if err := json.Unmarshal(msg.Payload(), &s); err != nil {
			log.Printf("%s: sample unmarshal error: %v", who, err)
			return
		}
		fn(s)
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("%s: subscribed to %s", who, topic)
	return nil
}

// subscribeRaw decodes every message on topic as an env.Raw.
func subscribeRaw(client mqtt.Client, topic, who string, fn func(env.Raw)) error {
	token := client.Subscribe(topic, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var r env.Raw
		if err := json.Unmarshal(msg.Payload(), &r); err != nil {
			log.Printf("%s: raw unmarshal error: %v", who, err)
			return
		}
		fn(r)
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("%s: subscribed to %s", who, topic)
	return nil
}
