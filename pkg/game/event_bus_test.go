package game

import "testing"

func TestPublishDeliversToSubscribers(t *testing.T) {
	bus := NewEventBus()

	var got []delivery
	bus.Subscribe(SignalEnemyDied, func(ev Event) { got = append(got, delivery{"a", uint64(ev.Entity)}) })
	bus.Subscribe(SignalEnemyDied, func(ev Event) { got = append(got, delivery{"b", uint64(ev.Entity)}) })
	bus.Subscribe(SignalObstacleDestroyed, func(ev Event) { t.Error("wrong signal delivered") })

	bus.Publish(Event{Signal: SignalEnemyDied, Entity: 7})

	if len(got) != 2 {
		t.Fatalf("Expected 2 deliveries, got %d", len(got))
	}
	// 按订阅顺序投递
	if got[0].name != "a" || got[1].name != "b" || got[0].id != 7 {
		t.Errorf("Unexpected delivery order/payload: %+v", got)
	}
}

type delivery struct {
	name string
	id   uint64
}

func TestUnsubscribe(t *testing.T) {
	bus := NewEventBus()
	calls := 0
	sub := bus.Subscribe(SignalBuildStart, func(Event) { calls++ })

	bus.Publish(Event{Signal: SignalBuildStart})
	bus.Unsubscribe(sub)
	bus.Unsubscribe(sub) // 重复取消为空操作
	bus.Unsubscribe(Subscription{})
	bus.Publish(Event{Signal: SignalBuildStart})

	if calls != 1 {
		t.Errorf("Expected 1 call, got %d", calls)
	}
	if n := bus.SubscriberCount(SignalBuildStart); n != 0 {
		t.Errorf("Expected 0 subscribers, got %d", n)
	}
}

func TestUnsubscribeDuringPublish(t *testing.T) {
	bus := NewEventBus()
	calls := 0
	var second Subscription

	// 第一个处理函数取消第二个：本次投递仍使用快照
	bus.Subscribe(SignalDefenseStop, func(Event) {
		calls++
		bus.Unsubscribe(second)
	})
	second = bus.Subscribe(SignalDefenseStop, func(Event) { calls++ })

	bus.Publish(Event{Signal: SignalDefenseStop})
	if calls != 2 {
		t.Errorf("first publish: expected 2 calls, got %d", calls)
	}

	bus.Publish(Event{Signal: SignalDefenseStop})
	if calls != 3 {
		t.Errorf("second publish: expected 3 calls, got %d", calls)
	}
}

func TestPostIsDeferredUntilFlush(t *testing.T) {
	bus := NewEventBus()
	var order []Signal
	bus.Subscribe(SignalDefenseStop, func(ev Event) {
		order = append(order, ev.Signal)
		// 投递中再投递，同一次 Flush 内送达
		bus.Post(Event{Signal: SignalBuildStart})
	})
	bus.Subscribe(SignalBuildStart, func(ev Event) { order = append(order, ev.Signal) })

	bus.Post(Event{Signal: SignalDefenseStop})
	if len(order) != 0 {
		t.Fatal("Post should not deliver before Flush")
	}
	if bus.Pending() != 1 {
		t.Errorf("Expected 1 pending event, got %d", bus.Pending())
	}

	bus.Flush()

	if len(order) != 2 || order[0] != SignalDefenseStop || order[1] != SignalBuildStart {
		t.Errorf("Unexpected delivery order: %v", order)
	}
	if bus.Pending() != 0 {
		t.Errorf("Expected empty queue after Flush, got %d", bus.Pending())
	}
}

func TestFlushStopsRunawayLoops(t *testing.T) {
	bus := NewEventBus()
	calls := 0
	bus.Subscribe(SignalPaused, func(ev Event) {
		calls++
		bus.Post(ev)
	})

	bus.Post(Event{Signal: SignalPaused})
	bus.Flush()

	if calls != maxFlushRounds {
		t.Errorf("Expected %d deliveries, got %d", maxFlushRounds, calls)
	}
	if bus.Pending() != 1 {
		t.Errorf("Expected runaway event deferred, got %d pending", bus.Pending())
	}
}

func TestClose(t *testing.T) {
	bus := NewEventBus()
	calls := 0
	bus.Subscribe(SignalVictory, func(Event) { calls++ })
	bus.Post(Event{Signal: SignalVictory})

	bus.Close()

	if bus.TotalSubscribers() != 0 {
		t.Errorf("Expected no subscribers after Close, got %d", bus.TotalSubscribers())
	}
	bus.Publish(Event{Signal: SignalVictory})
	bus.Flush()
	if calls != 0 {
		t.Errorf("Expected no deliveries after Close, got %d", calls)
	}
	if sub := bus.Subscribe(SignalVictory, func(Event) {}); sub != (Subscription{}) {
		t.Error("Subscribe after Close should return zero subscription")
	}
	if !bus.IsClosed() {
		t.Error("IsClosed should be true")
	}
}

func TestSignalString(t *testing.T) {
	if SignalEnemyDied.String() != "EnemyDied" {
		t.Errorf("got %q", SignalEnemyDied.String())
	}
	if Signal(999).String() != "Unknown" {
		t.Errorf("got %q", Signal(999).String())
	}
}
