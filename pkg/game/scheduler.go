package game

import "slices"

// TaskID 延迟任务标识，0 为无效值
type TaskID uint64

type scheduledTask struct {
	id    TaskID
	owner any
	due   float64
	fn    func()
}

// Scheduler 协作式延迟任务调度器
//
// 替代"等待 N 秒后执行"的协程：任务只在 Advance 中执行，
// 与 tick 在同一线程，不需要加锁。
//
// 取消：
//   - Cancel(id) 取消单个任务
//   - CancelOwner(owner) 取消某个所有者的全部任务（实体销毁、阶段提前结束时调用）
//   - 已取消的任务永远不会执行
type Scheduler struct {
	now    float64
	nextID TaskID
	tasks  []*scheduledTask
}

// NewScheduler 创建调度器
func NewScheduler() *Scheduler {
	return &Scheduler{nextID: 1}
}

// Now 返回调度器时钟（秒）
func (s *Scheduler) Now() float64 {
	return s.now
}

// After 在 delay 秒后执行 fn
// 参数:
//   - owner: 任务所有者（可比较的值，如 ecs.EntityID 或系统指针），可为 nil
//   - delay: 延迟（秒），<= 0 时在下一次 Advance 中执行
//   - fn: 任务函数
//
// 返回:
//   - TaskID: 任务标识
func (s *Scheduler) After(owner any, delay float64, fn func()) TaskID {
	if delay < 0 {
		delay = 0
	}
	id := s.nextID
	s.nextID++
	s.tasks = append(s.tasks, &scheduledTask{id: id, owner: owner, due: s.now + delay, fn: fn})
	return id
}

// Cancel 取消任务，返回任务是否仍在等待中
func (s *Scheduler) Cancel(id TaskID) bool {
	for i, t := range s.tasks {
		if t.id == id {
			s.tasks = slices.Delete(s.tasks, i, i+1)
			return true
		}
	}
	return false
}

// CancelOwner 取消所有者的全部任务，返回取消的数量
func (s *Scheduler) CancelOwner(owner any) int {
	before := len(s.tasks)
	s.tasks = slices.DeleteFunc(s.tasks, func(t *scheduledTask) bool {
		return t.owner == owner
	})
	return before - len(s.tasks)
}

// Pending 返回等待中的任务数量
func (s *Scheduler) Pending() int {
	return len(s.tasks)
}

// PendingFor 返回所有者等待中的任务数量
func (s *Scheduler) PendingFor(owner any) int {
	n := 0
	for _, t := range s.tasks {
		if t.owner == owner {
			n++
		}
	}
	return n
}

// Advance 推进时钟并按到期时间顺序执行到期任务
// 执行中新建的任务最早在下一次 Advance 中执行
func (s *Scheduler) Advance(dt float64) {
	s.now += dt

	due := make([]*scheduledTask, 0)
	for _, t := range s.tasks {
		if t.due <= s.now {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return
	}
	slices.SortStableFunc(due, func(a, b *scheduledTask) int {
		switch {
		case a.due < b.due:
			return -1
		case a.due > b.due:
			return 1
		default:
			return int(a.id) - int(b.id)
		}
	})

	for _, t := range due {
		// 前面的任务可能已取消后面的任务
		if !s.Cancel(t.id) {
			continue
		}
		t.fn()
	}
}

// Clear 丢弃所有任务
func (s *Scheduler) Clear() {
	s.tasks = nil
}
