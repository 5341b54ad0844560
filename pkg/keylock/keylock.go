// Package keylock 提供以 key 為單位的互斥鎖。
//
// 多個 key 一律依遞增順序取得，兩個同時需要 {A, B} 的呼叫者
// 不論邏輯上的方向為何，都會先搶 A 再搶 B，因此不會互相死鎖。
// 取鎖可透過 context 取消或逾時；不相關的 key 彼此完全平行。
package keylock

import (
	"cmp"
	"context"
	"slices"
	"sync"
)

// slot 單一 key 的鎖，容量 1 的 channel 當作可取消的 mutex
type slot struct {
	ch   chan struct{}
	refs int // 持有或等待中的呼叫者數量，歸零時回收
}

// Locker 以 key 為單位的鎖管理器，零值不可用，請用 New 建立
type Locker[K cmp.Ordered] struct {
	mu    sync.Mutex
	slots map[K]*slot
}

// New 建立 Locker
func New[K cmp.Ordered]() *Locker[K] {
	return &Locker[K]{slots: make(map[K]*slot)}
}

// Lock 依遞增順序取得所有 key 的鎖 (重複的 key 只取一次)
//
// 參數:
//
//	ctx: 取消或逾時時放棄等待，已取得的鎖會全部釋放
//	keys: 需要鎖定的 key
//
// 回傳:
//
//	release: 釋放所有鎖，可重複呼叫
//	error: ctx.Err()
func (l *Locker[K]) Lock(ctx context.Context, keys ...K) (release func(), err error) {
	ordered := slices.Clone(keys)
	slices.Sort(ordered)
	ordered = slices.Compact(ordered)

	held := make([]K, 0, len(ordered))
	for _, key := range ordered {
		s := l.acquireRef(key)
		select {
		case s.ch <- struct{}{}:
			held = append(held, key)
		case <-ctx.Done():
			l.releaseRef(key)
			l.unlock(held)
			return nil, ctx.Err()
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() { l.unlock(held) })
	}, nil
}

// unlock 反向釋放已取得的鎖
func (l *Locker[K]) unlock(held []K) {
	for i := len(held) - 1; i >= 0; i-- {
		key := held[i]
		l.mu.Lock()
		s := l.slots[key]
		l.mu.Unlock()
		<-s.ch
		l.releaseRef(key)
	}
}

func (l *Locker[K]) acquireRef(key K) *slot {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.slots[key]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.slots[key] = s
	}
	s.refs++
	return s
}

func (l *Locker[K]) releaseRef(key K) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s := l.slots[key]
	s.refs--
	if s.refs == 0 {
		delete(l.slots, key)
	}
}

// Len 目前仍存在 (被持有或等待中) 的 key 數量
func (l *Locker[K]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.slots)
}
