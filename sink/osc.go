package sink

import (
	"math"

	"github.com/hypebeast/go-osc/osc"
	"github.com/pkg/errors"
)

// DefaultOSCAddress is the address beats are published on.
const DefaultOSCAddress = "/metronome/beat"

// OSCClient is the part of osc.Client the sink needs.
type OSCClient interface {
	Send(packet osc.Packet) error
}

// OSCSink broadcasts each beat as an OSC message so lighting desks, VJ software and other apps can follow along.
// The message carries the whole beat number, the fractional position and the accent flag.
type OSCSink struct {
	client  OSCClient
	address string
}

// NewOSCSink creates a sink that sends to host:port.
func NewOSCSink(host string, port int, address string) *OSCSink {
	return NewOSCSinkWithClient(osc.NewClient(host, port), address)
}

func NewOSCSinkWithClient(client OSCClient, address string) *OSCSink {
	if address == "" {
		address = DefaultOSCAddress
	}
	return &OSCSink{client: client, address: address}
}

func (o *OSCSink) OnBeat(beat float64, accent bool, at float64) error {
	msg := osc.NewMessage(o.address)
	msg.Append(int32(math.Floor(beat)))
	msg.Append(float32(beat))
	msg.Append(accent)

	if err := o.client.Send(msg); err != nil {
		return errors.Wrapf(err, "sending OSC beat to %s", o.address)
	}
	return nil
}
