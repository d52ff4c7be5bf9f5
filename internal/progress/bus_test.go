package progress

import "testing"

func TestBus_PublishDeliversToSubscriber(t *testing.T) {
	b := NewBus()
	events, token := b.Subscribe(1)
	defer b.Unsubscribe(1, token)

	b.Publish(Event{Kind: EventRunStarted, ExperimentID: 1})

	select {
	case ev := <-events:
		if ev.Kind != EventRunStarted {
			t.Errorf("expected EventRunStarted, got %s", ev.Kind)
		}
	default:
		t.Fatal("expected an event to be buffered")
	}
}

func TestBus_PublishIgnoresOtherExperiments(t *testing.T) {
	b := NewBus()
	events, token := b.Subscribe(1)
	defer b.Unsubscribe(1, token)

	b.Publish(Event{Kind: EventRunStarted, ExperimentID: 2})

	select {
	case ev := <-events:
		t.Fatalf("unexpected event for unrelated experiment: %+v", ev)
	default:
	}
}

func TestBus_PublishNeverBlocksWhenSubscriberFull(t *testing.T) {
	b := NewBus()
	events, token := b.Subscribe(1)
	defer b.Unsubscribe(1, token)

	for i := 0; i < busCapacity+10; i++ {
		b.Publish(Event{Kind: EventRunCompleted, ExperimentID: 1, Completed: i})
	}

	count := 0
	for {
		select {
		case <-events:
			count++
		default:
			if count != busCapacity {
				t.Errorf("expected exactly %d buffered events, got %d", busCapacity, count)
			}
			return
		}
	}
}

func TestBus_UnsubscribeClosesChannel(t *testing.T) {
	b := NewBus()
	events, token := b.Subscribe(1)
	b.Unsubscribe(1, token)

	if _, ok := <-events; ok {
		t.Fatal("expected channel to be closed after Unsubscribe")
	}
}
