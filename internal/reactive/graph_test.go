package reactive_test

import (
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/pengviz/internal/reactive"
)

var _ = Describe("Graph", func() {
	var (
		g      *reactive.Graph
		words  *reactive.Input[string]
		width  *reactive.Input[int]
		upper  *reactive.Calc[string]
		banner *reactive.Output[string]
		length *reactive.Output[int]
		padded *reactive.Output[string]
	)

	BeforeEach(func() {
		g = reactive.NewGraph()
		words = reactive.NewInput(g, "words", "pen", reactive.Equal[string])
		width = reactive.NewInput(g, "width", 5, reactive.Equal[int])
		upper = reactive.NewCalc(g, "upper", []reactive.Node{words}, func() string {
			return strings.ToUpper(words.Get())
		})
		banner = reactive.NewOutput(g, "banner", []reactive.Node{upper}, func() string {
			return "[" + upper.Get() + "]"
		})
		length = reactive.NewOutput(g, "length", []reactive.Node{upper}, func() int {
			return len(upper.Get())
		})
		padded = reactive.NewOutput(g, "padded", []reactive.Node{upper, width}, func() string {
			s := upper.Get()
			for len(s) < width.Get() {
				s += "."
			}
			return s
		})
	})

	It("computes lazily and caches", func() {
		Expect(g.Runs()).To(Equal(map[string]int{"upper": 0, "banner": 0, "length": 0, "padded": 0}))

		Expect(banner.Get()).To(Equal("[PEN]"))
		Expect(banner.Get()).To(Equal("[PEN]"))
		Expect(g.Runs()["banner"]).To(Equal(1))
		Expect(g.Runs()["upper"]).To(Equal(1))
		Expect(g.Runs()["length"]).To(Equal(0))
	})

	It("flushes stale outputs in creation order", func() {
		Expect(g.Flush()).To(Equal([]string{"banner", "length", "padded"}))
		Expect(g.Flush()).To(BeEmpty())
		Expect(padded.Get()).To(Equal("PEN.."))
	})

	It("recomputes only the outputs downstream of a write", func() {
		g.Flush()

		Expect(width.Set(7)).To(BeTrue())
		Expect(g.Stale("padded")).To(BeTrue())
		Expect(g.Stale("banner")).To(BeFalse())
		Expect(g.Stale("upper")).To(BeFalse())

		Expect(g.Flush()).To(Equal([]string{"padded"}))
		runs := g.Runs()
		Expect(runs["upper"]).To(Equal(1))
		Expect(runs["banner"]).To(Equal(1))
		Expect(runs["padded"]).To(Equal(2))
		Expect(padded.Get()).To(Equal("PEN...."))
	})

	It("treats an equal write as a no-op", func() {
		g.Flush()
		Expect(words.Set("pen")).To(BeFalse())
		Expect(g.Flush()).To(BeEmpty())
		Expect(g.Runs()["upper"]).To(Equal(1))
	})

	It("invalidates every output when a shared input changes", func() {
		g.Flush()
		var notified [][]string
		g.OnInvalidate(func(outputs []string) { notified = append(notified, outputs) })

		Expect(words.Set("gentoo")).To(BeTrue())
		Expect(notified).To(Equal([][]string{{"banner", "length", "padded"}}))
		Expect(length.Get()).To(Equal(6))
		Expect(g.Runs()["upper"]).To(Equal(2))
	})

	It("always invalidates inputs without an equality func", func() {
		tick := reactive.NewInput[int](g, "tick", 0, nil)
		count := reactive.NewOutput(g, "count", []reactive.Node{tick}, func() int { return tick.Get() })
		Expect(count.Get()).To(Equal(0))
		Expect(tick.Set(0)).To(BeTrue())
		Expect(g.Stale("count")).To(BeTrue())
	})

	It("reports recomputations to hooks", func() {
		var ran []string
		g.OnRecompute(func(name string, kind reactive.Kind, elapsed time.Duration) {
			Expect(elapsed).To(BeNumerically(">=", 0))
			ran = append(ran, kind.String()+":"+name)
		})
		banner.Get()
		Expect(ran).To(Equal([]string{"calc:upper", "output:banner"}))
	})

	It("describes the graph", func() {
		info := g.Describe()
		Expect(info).To(HaveLen(6))
		Expect(info[5]).To(Equal(reactive.Info{Name: "padded", Kind: reactive.KindOutput, Deps: []string{"upper", "width"}}))
	})

	Context("wiring mistakes", func() {
		It("rejects duplicate names", func() {
			Expect(func() { reactive.NewInput(g, "words", "", reactive.Equal[string]) }).To(Panic())
		})

		It("rejects dependencies on outputs", func() {
			Expect(func() {
				reactive.NewOutput(g, "bad", []reactive.Node{banner}, func() int { return 0 })
			}).To(Panic())
		})

		It("rejects nodes from another graph", func() {
			other := reactive.NewGraph()
			Expect(func() {
				reactive.NewCalc(other, "x", []reactive.Node{words}, func() int { return 0 })
			}).To(Panic())
		})

		It("rejects reads of undeclared dependencies", func() {
			sneaky := reactive.NewOutput(g, "sneaky", []reactive.Node{upper}, func() int {
				return width.Get()
			})
			Expect(func() { sneaky.Get() }).To(Panic())
		})
	})
})
