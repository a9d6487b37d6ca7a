package playback

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/loopviz/internal/scenario"
)

func builtinStore() *scenario.Store {
	st, err := scenario.Default()
	Expect(err).NotTo(HaveOccurred())
	return st
}

var _ = Describe("Controller", func() {
	var (
		store *scenario.Store
		ctrl  *Controller
	)

	BeforeEach(func() {
		store = builtinStore()
		var err error
		ctrl, err = NewController(store)
		Expect(err).NotTo(HaveOccurred())
	})

	It("starts stopped on the first scenario", func() {
		st := ctrl.State()
		Expect(st.Scenario).To(Equal(0))
		Expect(st.Step).To(Equal(0))
		Expect(st.Running).To(BeFalse())
		Expect(ctrl.Lease()).To(BeZero())
	})

	It("rejects an empty store", func() {
		_, err := NewController(nil)
		Expect(err).To(MatchError(ErrEmptyStore))
	})

	Describe("Select", func() {
		It("rejects an out-of-range index and keeps state", func() {
			Expect(ctrl.Select(1)).To(Succeed())
			ctrl.Start()
			ctrl.Tick(ctrl.Lease())
			before := ctrl.State()

			err := ctrl.Select(store.Count())
			Expect(err).To(MatchError(scenario.ErrOutOfRange))
			Expect(ctrl.State()).To(Equal(before))
			Expect(ctrl.Lease()).NotTo(BeZero())

			Expect(ctrl.Select(-1)).To(MatchError(scenario.ErrOutOfRange))
		})

		It("stops a running playback and rewinds", func() {
			lease := ctrl.Start()
			Expect(ctrl.Tick(lease)).To(BeTrue())
			Expect(ctrl.Tick(lease)).To(BeTrue())

			Expect(ctrl.Select(2)).To(Succeed())
			st := ctrl.State()
			Expect(st.Running).To(BeFalse())
			Expect(st.Step).To(Equal(0))
			Expect(st.Scenario).To(Equal(2))
			Expect(ctrl.Scenario().Name).To(Equal("Async/Await"))

			Expect(ctrl.Tick(lease)).To(BeFalse())
			Expect(ctrl.State().Step).To(Equal(0))
		})
	})

	Describe("Start", func() {
		It("always begins at step 0", func() {
			Expect(ctrl.Seek(4)).To(BeTrue())
			ctrl.Start()
			Expect(ctrl.State().Step).To(Equal(0))
			Expect(ctrl.Running()).To(BeTrue())
		})

		It("revokes the previous lease", func() {
			first := ctrl.Start()
			Expect(ctrl.Tick(first)).To(BeTrue())

			second := ctrl.Start()
			Expect(second).NotTo(Equal(first))
			Expect(ctrl.State().Step).To(Equal(0))
			Expect(ctrl.Tick(first)).To(BeFalse())
			Expect(ctrl.Tick(second)).To(BeTrue())
			Expect(ctrl.State().Step).To(Equal(1))
		})
	})

	Describe("Tick", func() {
		It("stops on reaching the final step", func() {
			lease := ctrl.Start()
			total := ctrl.State().Total
			for i := 1; i < total; i++ {
				Expect(ctrl.Tick(lease)).To(BeTrue())
			}
			st := ctrl.State()
			Expect(st.Step).To(Equal(total - 1))
			Expect(st.Running).To(BeFalse())
			Expect(ctrl.Lease()).To(BeZero())
		})

		It("leaves the final step unchanged", func() {
			lease := ctrl.Start()
			for ctrl.Running() {
				ctrl.Tick(lease)
			}
			last := ctrl.State().Step
			Expect(ctrl.Tick(lease)).To(BeFalse())
			Expect(ctrl.State().Step).To(Equal(last))
			Expect(ctrl.Running()).To(BeFalse())
		})

		It("stops when ticked while already on the final step", func() {
			one, err := scenario.New([]scenario.Scenario{{Name: "one", Steps: []scenario.Step{{Title: "only"}}}})
			Expect(err).NotTo(HaveOccurred())
			c, err := NewController(one)
			Expect(err).NotTo(HaveOccurred())

			lease := c.Start()
			Expect(c.Running()).To(BeTrue())
			Expect(c.Tick(lease)).To(BeFalse())
			Expect(c.Running()).To(BeFalse())
			Expect(c.State().Step).To(Equal(0))
		})

		It("ignores ticks while stopped", func() {
			Expect(ctrl.Tick(1)).To(BeFalse())
			lease := ctrl.Start()
			ctrl.Stop()
			Expect(ctrl.Tick(lease)).To(BeFalse())
			Expect(ctrl.State().Step).To(Equal(0))
		})

		It("produces the Simple Timeout output after seven ticks", func() {
			idx, _, err := store.Lookup("Simple Timeout")
			Expect(err).NotTo(HaveOccurred())
			Expect(ctrl.Select(idx)).To(Succeed())

			lease := ctrl.Start()
			for i := 0; i < 7; i++ {
				ctrl.Tick(lease)
			}
			Expect(ctrl.CurrentStep().Output).To(Equal([]string{"Start", "End", "Timeout"}))
			Expect(ctrl.Running()).To(BeFalse())
		})

		It("applies steps strictly in order", func() {
			lease := ctrl.Start()
			seen := []int{ctrl.State().Step}
			for ctrl.Running() {
				if ctrl.Tick(lease) {
					seen = append(seen, ctrl.State().Step)
				}
			}
			for i, s := range seen {
				Expect(s).To(Equal(i))
			}
		})
	})

	Describe("manual stepping", func() {
		It("clamps to the step range", func() {
			Expect(ctrl.Step(-1)).To(BeFalse())
			Expect(ctrl.Step(2)).To(BeTrue())
			Expect(ctrl.State().Step).To(Equal(2))
			Expect(ctrl.Seek(100)).To(BeTrue())
			Expect(ctrl.State().Step).To(Equal(ctrl.State().Total - 1))
			Expect(ctrl.State().AtEnd()).To(BeTrue())
		})

		It("is disabled while running", func() {
			ctrl.Start()
			Expect(ctrl.Step(1)).To(BeFalse())
			Expect(ctrl.Seek(3)).To(BeFalse())
			Expect(ctrl.State().Step).To(Equal(0))
		})
	})

	It("stops idempotently", func() {
		ctrl.Start()
		ctrl.Stop()
		ctrl.Stop()
		Expect(ctrl.Running()).To(BeFalse())
		Expect(ctrl.Lease()).To(BeZero())
	})
})
