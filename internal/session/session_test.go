package session_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/pengviz/internal/penguin"
	"github.com/san-kum/pengviz/internal/render"
	"github.com/san-kum/pengviz/internal/session"
)

var _ = Describe("Session", func() {
	var sess *session.Session

	BeforeEach(func() {
		sess = session.New(penguins, session.DefaultInputs())
		DeferCleanup(sess.Close)
	})

	set := func(name, value string) bool {
		changed, err := sess.Set(name, value)
		Expect(err).NotTo(HaveOccurred())
		return changed
	}

	It("computes nothing until asked", func() {
		for node, n := range sess.Runs() {
			Expect(n).To(BeZero(), node)
		}
	})

	It("computes every output once on the first flush", func() {
		Expect(sess.Flush()).To(Equal(render.OutputNames()))
		runs := sess.Runs()
		Expect(runs[render.DepFiltered]).To(Equal(1))
		for _, name := range render.OutputNames() {
			Expect(runs[name]).To(Equal(1), name)
		}
	})

	Describe("dependency isolation", func() {
		BeforeEach(func() { sess.Flush() })

		It("recomputes only the interactive histogram for interactive_bins", func() {
			Expect(set(session.InputInteractiveBins, "20")).To(BeTrue())
			Expect(sess.Flush()).To(Equal([]string{render.OutputInteractiveHistogram}))

			runs := sess.Runs()
			Expect(runs[render.OutputDataTable]).To(Equal(1))
			Expect(runs[render.OutputDataGrid]).To(Equal(1))
			Expect(runs[render.DepFiltered]).To(Equal(1))
		})

		It("recomputes only the static histogram for static_bins", func() {
			Expect(set(session.InputStaticBins, "5")).To(BeTrue())
			Expect(sess.Flush()).To(Equal([]string{render.OutputStaticHistogram}))
		})

		It("recomputes both histograms for attribute", func() {
			Expect(set(session.InputAttribute, "body_mass_g")).To(BeTrue())
			Expect(sess.Flush()).To(Equal([]string{render.OutputInteractiveHistogram, render.OutputStaticHistogram}))
		})

		It("recomputes everything for species", func() {
			Expect(set(session.InputSpecies, "Adelie,Chinstrap")).To(BeTrue())
			Expect(sess.Flush()).To(Equal(render.OutputNames()))
			Expect(sess.Runs()[render.DepFiltered]).To(Equal(2))
		})

		It("ignores writes of an unchanged value", func() {
			Expect(set(session.InputSpecies, "Chinstrap, gentoo ,Adelie")).To(BeFalse())
			Expect(set(session.InputStaticBins, "50")).To(BeFalse())
			Expect(set(session.InputAttribute, "bill_length_mm")).To(BeFalse())
			Expect(sess.Flush()).To(BeEmpty())
		})

		It("keeps the scatterplot invariant under attribute and bins", func() {
			before, err := sess.Output(render.OutputScatterplot)
			Expect(err).NotTo(HaveOccurred())

			set(session.InputAttribute, "flipper_length_mm")
			set(session.InputInteractiveBins, "3")
			set(session.InputStaticBins, "99")
			sess.Flush()

			after, err := sess.Output(render.OutputScatterplot)
			Expect(err).NotTo(HaveOccurred())
			Expect(after).To(BeIdenticalTo(before))
			Expect(sess.Runs()[render.OutputScatterplot]).To(Equal(1))
		})
	})

	It("filters to the 124 Gentoo rows", func() {
		set(session.InputSpecies, "Gentoo")
		Expect(sess.Filtered().Len()).To(Equal(124))

		a, err := sess.Output(render.OutputDataTable)
		Expect(err).NotTo(HaveOccurred())
		table := a.(*render.Table)
		Expect(table.Rows).To(HaveLen(124))
		for _, row := range table.Rows {
			Expect(row[0]).To(Equal("Gentoo"))
		}
	})

	It("keeps every row for the full selection", func() {
		Expect(sess.Filtered().Len()).To(Equal(penguins.Len()))
	})

	It("returns empty artifacts for the empty selection", func() {
		set(session.InputSpecies, "")
		for _, name := range render.OutputNames() {
			a, err := sess.Output(name)
			Expect(err).NotTo(HaveOccurred())
			Expect(a.Empty()).To(BeTrue(), name)
		}
	})

	It("falls back to automatic bins for non-numeric input", func() {
		set(session.InputInteractiveBins, "many")
		a, err := sess.Output(render.OutputInteractiveHistogram)
		Expect(err).NotTo(HaveOccurred())
		Expect(a.(*render.Chart).Bins).To(Equal(10))
	})

	It("matches the stateless render path", func() {
		set(session.InputSpecies, "Adelie")
		set(session.InputAttribute, "bill_depth_mm")

		in := sess.Inputs()
		for _, name := range render.OutputNames() {
			want, err := in.Render(in.Filter(penguins), name)
			Expect(err).NotTo(HaveOccurred())
			got, err := sess.Output(name)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(want), name)
		}
	})

	Describe("boundary errors", func() {
		It("rejects unknown inputs", func() {
			_, err := sess.Set("plotly_bin_count", "3")
			Expect(err).To(MatchError(session.ErrUnknownInput))
		})

		It("rejects unknown columns and species", func() {
			_, err := sess.Set(session.InputAttribute, "wingspan")
			Expect(err).To(MatchError(penguin.ErrUnknownColumn))
			_, err = sess.Set(session.InputSpecies, "Emperor")
			Expect(err).To(MatchError(penguin.ErrUnknownSpecies))
			Expect(sess.Inputs().Species.Len()).To(Equal(3))
		})

		It("rejects unknown outputs", func() {
			_, err := sess.Output("penguins_datagrid")
			Expect(err).To(MatchError(render.ErrUnknownOutput))
		})
	})

	Describe("subscriptions", func() {
		It("delivers invalidated outputs", func() {
			ch, cancel := sess.Subscribe()
			defer cancel()

			set(session.InputAttribute, "body_mass_g")
			Eventually(ch).Should(Receive(Equal([]string{
				render.OutputInteractiveHistogram, render.OutputStaticHistogram,
			})))

			set(session.InputAttribute, "body_mass_g")
			Consistently(ch).ShouldNot(Receive())
		})

		It("closes subscriptions when the session closes", func() {
			ch, _ := sess.Subscribe()
			sess.Close()
			Eventually(ch).Should(BeClosed())

			_, err := sess.Set(session.InputStaticBins, "3")
			Expect(err).To(MatchError(session.ErrClosed))
		})
	})

	It("applies a full set of inputs", func() {
		in := session.DefaultInputs()
		in.Attribute = penguin.BodyMass
		in.StaticBins = 7

		changed, err := sess.Apply(in)
		Expect(err).NotTo(HaveOccurred())
		Expect(changed).To(Equal([]string{session.InputAttribute, session.InputStaticBins}))
		Expect(sess.Inputs().Strings()).To(HaveKeyWithValue(session.InputStaticBins, "7"))
	})
})
