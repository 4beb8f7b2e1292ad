package server

// Broker fans every published message out to all current subscribers
type Broker struct {
	stopCh    chan struct{}
	publishCh chan struct{}
	subCh     chan chan struct{}
	unsubCh   chan chan struct{}
}

func newBroker() *Broker {
	return &Broker{
		stopCh:    make(chan struct{}),
		publishCh: make(chan struct{}, 1),
		subCh:     make(chan chan struct{}),
		unsubCh:   make(chan chan struct{}),
	}
}

func (b *Broker) Start() {
	subs := map[chan struct{}]struct{}{}
	for {
		select {
		case <-b.stopCh:
			return
		case msgCh := <-b.subCh:
			subs[msgCh] = struct{}{}
		case msgCh := <-b.unsubCh:
			delete(subs, msgCh)
		case msg := <-b.publishCh:
			for msgCh := range subs {
				// subscribers that are still busy skip this message
				select {
				case msgCh <- msg:
				default:
				}
			}
		}
	}
}

func (b *Broker) Stop() {
	close(b.stopCh)
}

// Subscribe registers a new subscriber. Once the broker is stopped the
// returned channel never receives.
func (b *Broker) Subscribe() chan struct{} {
	msgCh := make(chan struct{}, 1)
	select {
	case b.subCh <- msgCh:
	case <-b.stopCh:
	}
	return msgCh
}

func (b *Broker) Unsubscribe(msgCh chan struct{}) {
	select {
	case b.unsubCh <- msgCh:
	case <-b.stopCh:
	}
}

func (b *Broker) Publish(msg struct{}) {
	select {
	case b.publishCh <- msg:
	case <-b.stopCh:
	}
}

// Done is closed once the broker stops
func (b *Broker) Done() <-chan struct{} {
	return b.stopCh
}
