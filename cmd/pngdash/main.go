// Command pngdash is a host-side dashboard that subscribes to decode
// telemetry published by a device running image/png and prints a running
// line per message.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

func main() {
	broker := flag.String("broker", "tcp://localhost:1883", "MQTT broker URL")
	topic := flag.String("topic", "pngstream/decode", "telemetry topic to subscribe to")
	clientID := flag.String("client-id", "pngdash", "MQTT client id")
	flag.Parse()

	opts := mqtt.NewClientOptions().AddBroker(*broker).SetClientID(*clientID)
	opts.SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Err() != nil {
		log.Fatalf("pngdash: connect: %v", token.Err())
	}
	defer client.Disconnect(250)

	token := client.Subscribe(*topic, 0, func(_ mqtt.Client, msg mqtt.Message) {
		fmt.Printf("%s: %s\n", msg.Topic(), msg.Payload())
	})
	if token.Wait() && token.Err() != nil {
		log.Fatalf("pngdash: subscribe: %v", token.Err())
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	<-sig
}
