// SPDX-License-Identifier: Unlicense OR MIT

// Command uthreaddemo drives the uthread scheduler through a handful
// of fixed scenarios and prints what each logical thread observed.
// It replaces the teacher's GPU kitchen-sink demo (cmd/demo) with a
// scheduler-observability demo, keeping the same main/run split and
// flag-driven entry point.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/dgnorth/uthreads/uthread"
)

func main() {
	scenario := flag.String("scenario", "fairness", "scenario to run: fairness, mutex, block-resume, id-reuse")
	quantum := flag.Duration("quantum", 10*time.Millisecond, "scheduler quantum")
	flag.Parse()

	if err := run(*scenario, *quantum); err != nil {
		log.Fatal(err)
	}
}

func run(scenario string, quantum time.Duration) error {
	if err := uthread.Init(quantum); err != nil {
		return err
	}
	switch scenario {
	case "fairness":
		return fairness()
	case "mutex":
		return mutexContention()
	case "block-resume":
		return blockResume()
	case "id-reuse":
		return idReuse()
	default:
		return fmt.Errorf("unknown scenario %q", scenario)
	}
}

// fairness spawns three workers that each spin a tight counter and
// terminate themselves, then reports how many quantums the process
// took in total and how many each worker got.
func fairness() error {
	const workers = 3
	const iterations = 1000

	var mu sync.Mutex
	got := map[int]uint64{}
	done := make(chan struct{}, workers)

	for i := 0; i < workers; i++ {
		id, err := uthread.Spawn(func() {
			for i := 0; i < iterations; i++ {
			}
			self := uthread.GetTid()
			n, _ := uthread.GetQuantums(self)
			mu.Lock()
			got[self] = n
			mu.Unlock()
			done <- struct{}{}
		})
		if err != nil {
			return err
		}
		fmt.Printf("spawned worker %d\n", id)
	}

	for i := 0; i < workers; i++ {
		<-done
	}
	total := uthread.GetTotalQuantums()
	fmt.Printf("total_quantums=%d\n", total)
	for id, n := range got {
		fmt.Printf("thread %d ran for %d quantums\n", id, n)
	}
	return nil
}

// mutexContention spawns two workers that each lock and then
// immediately unlock the library mutex, reporting the thread ID under
// which each acquired it.
func mutexContention() error {
	results := make(chan string, 2)
	body := func(name string) func() {
		return func() {
			if err := uthread.MutexLock(); err != nil {
				results <- fmt.Sprintf("%s: lock failed: %v", name, err)
				return
			}
			results <- fmt.Sprintf("%s: acquired mutex as thread %d", name, uthread.GetTid())
			if err := uthread.MutexUnlock(); err != nil {
				results <- fmt.Sprintf("%s: unlock failed: %v", name, err)
			}
		}
	}
	if _, err := uthread.Spawn(body("A")); err != nil {
		return err
	}
	if _, err := uthread.Spawn(body("B")); err != nil {
		return err
	}
	for i := 0; i < 2; i++ {
		fmt.Println(<-results)
	}
	return nil
}

// blockResume spawns one worker, blocks it, then immediately resumes
// it from thread 0.
func blockResume() error {
	done := make(chan struct{})
	id, err := uthread.Spawn(func() {
		fmt.Printf("worker %d resumed, exiting\n", uthread.GetTid())
		close(done)
	})
	if err != nil {
		return err
	}
	if err := uthread.Block(id); err != nil {
		return err
	}
	fmt.Printf("thread 0 blocked worker %d\n", id)
	if err := uthread.Resume(id); err != nil {
		return err
	}
	<-done
	return nil
}

// idReuse spawns and terminates a worker, then spawns a second one and
// reports that it was handed the same, now-free, ID.
func idReuse() error {
	done := make(chan struct{})
	firstID, err := uthread.Spawn(func() { close(done) })
	if err != nil {
		return err
	}
	<-done
	// Give the first worker's termination a moment to be scheduled.
	time.Sleep(10 * time.Millisecond)

	secondID, err := uthread.Spawn(func() {})
	if err != nil {
		return err
	}
	fmt.Printf("first worker id=%d second worker id=%d reused=%v\n", firstID, secondID, firstID == secondID)
	if err := uthread.Terminate(secondID); err != nil {
		return err
	}
	os.Exit(0)
	return nil
}
