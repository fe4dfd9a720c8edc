// Mealpick - Restaurant Suggestion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealpick

package history

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// NewMemoryTransport returns an in-process transport. Publish does not wait
// for the worker to ack. Messages published while no worker is subscribed
// are lost, as is anything still buffered at shutdown.
func NewMemoryTransport(bufferSize int64, logger watermill.LoggerAdapter) *Transport {
	ch := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer:            bufferSize,
		Persistent:                     false,
		BlockPublishUntilSubscriberAck: false,
	}, logger)

	return &Transport{Publisher: ch, Subscriber: ch}
}
