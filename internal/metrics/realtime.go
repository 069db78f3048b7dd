package metrics

// SetRealtimeSubscribers records the hub's subscription count.
func (m *Metrics) SetRealtimeSubscribers(count int) {
	m.safeExecute("SetRealtimeSubscribers", func() {
		m.RealtimeSubscribers.Set(float64(count))
	})
}

// RecordRealtimeBroadcast records the outcome of one fan-out.
func (m *Metrics) RecordRealtimeBroadcast(delivered, dropped int) {
	m.safeExecute("RecordRealtimeBroadcast", func() {
		m.RealtimeMessagesDelivered.Add(float64(delivered))
		m.RealtimeMessagesDropped.Add(float64(dropped))
	})
}

func (m *Metrics) RealtimeConnectionOpened() {
	m.safeExecute("RealtimeConnectionOpened", func() {
		m.RealtimeConnections.Inc()
	})
}

func (m *Metrics) RealtimeConnectionClosed() {
	m.safeExecute("RealtimeConnectionClosed", func() {
		m.RealtimeConnections.Dec()
	})
}

func (m *Metrics) RecordRealtimeRejection(reason string) {
	m.safeExecute("RecordRealtimeRejection", func() {
		m.RealtimeRejections.WithLabelValues(reason).Inc()
	})
}
