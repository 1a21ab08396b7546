package main

import (
	"bytes"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/segmentio/encoding/json"
)

type reportMessage struct {
	VehicleNo    string `json:"vehicleNo"`
	Route        string `json:"route"`
	StopLocation string `json:"stopLocation"`
}

var (
	routes = []string{"R-101", "R-102", "R-201"}
	stops  = []string{"Main gate", "Library", "Dormitory", "Station"}
)

const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func randomVehicleNo() string {
	digits := fmt.Sprintf("%02d", rand.Intn(100))
	suffix := string([]byte{charset[rand.Intn(26)], charset[26+rand.Intn(10)], charset[26+rand.Intn(10)], charset[26+rand.Intn(10)], charset[26+rand.Intn(10)]})
	return digits + suffix
}

type sender func(msg reportMessage, payload []byte) error

func mqttSender(broker string) (sender, func()) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID("shuttle-mock-reporter")

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalf("mqtt connect: %v", token.Error())
	}
	log.Printf("connected to %s", broker)

	send := func(msg reportMessage, payload []byte) error {
		topic := fmt.Sprintf("shuttle/vehicle/%s/report", msg.VehicleNo)
		token := client.Publish(topic, 1, false, payload)
		token.Wait()
		return token.Error()
	}
	return send, func() { client.Disconnect(250) }
}

func httpSender(baseURL string) sender {
	client := &http.Client{Timeout: 5 * time.Second}
	return func(_ reportMessage, payload []byte) error {
		resp, err := client.Post(baseURL+"/ingest", "application/json", bytes.NewReader(payload))
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("ingest: status %d", resp.StatusCode)
		}
		return nil
	}
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <interval_seconds>\n", os.Args[0])
		os.Exit(1)
	}

	intervalSec, err := strconv.Atoi(os.Args[1])
	if err != nil || intervalSec <= 0 {
		fmt.Fprintf(os.Stderr, "error: interval must be a positive integer\n")
		os.Exit(1)
	}

	// MQTT_BROKER wins over SERVER_URL when both are set.
	var send sender
	if broker := os.Getenv("MQTT_BROKER"); broker != "" {
		var closeFn func()
		send, closeFn = mqttSender(broker)
		defer closeFn()
	} else {
		baseURL := "http://localhost:9443"
		if v := os.Getenv("SERVER_URL"); v != "" {
			baseURL = v
		}
		send = httpSender(baseURL)
		log.Printf("posting to %s/ingest", baseURL)
	}

	vehiclePool := make([]string, 3)
	for i := range vehiclePool {
		vehiclePool[i] = randomVehicleNo()
	}
	log.Printf("vehicle pool: %v, reporting every %ds", vehiclePool, intervalSec)

	ticker := time.NewTicker(time.Duration(intervalSec) * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		msg := reportMessage{
			VehicleNo:    vehiclePool[rand.Intn(len(vehiclePool))],
			Route:        routes[rand.Intn(len(routes))],
			StopLocation: stops[rand.Intn(len(stops))],
		}

		payload, _ := json.Marshal(msg)
		if err := send(msg, payload); err != nil {
			log.Printf("send failed: %v", err)
			continue
		}
		log.Printf("reported: %s", payload)
	}
}
