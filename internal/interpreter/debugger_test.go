package interpreter_test

import (
	"bytes"
	"context"
	"io"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"martianoff/bfgo/internal/interpreter"
)

type scriptedPrompt struct {
	lines []string
}

func (s *scriptedPrompt) Prompt(string) (string, error) {
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

var _ = Describe("RegionBounds", func() {
	DescribeTable("windows",
		func(width, bufLen, pos int, expected interpreter.Bounds) {
			Expect(interpreter.RegionBounds(width, bufLen, pos)).To(Equal(expected))
		},
		Entry("cursor at start", 10, 100, 0, interpreter.Bounds{Start: 0, End: 10, Rel: 0}),
		Entry("cursor centered", 10, 100, 50, interpreter.Bounds{Start: 45, End: 55, Rel: 5}),
		Entry("cursor near end", 10, 100, 98, interpreter.Bounds{Start: 90, End: 100, Rel: 8}),
		Entry("cursor past end", 10, 100, 100, interpreter.Bounds{Start: 90, End: 100, Rel: 10}),
		Entry("short buffer", 10, 4, 2, interpreter.Bounds{Start: 0, End: 4, Rel: 2}),
		Entry("empty buffer", 10, 0, 0, interpreter.Bounds{Start: 0, End: 0, Rel: 0}),
		Entry("zero width", 0, 5, 3, interpreter.Bounds{Start: 3, End: 4, Rel: 0}),
	)
})

var _ = Describe("Debugger", func() {
	var (
		m    *interpreter.Machine
		out  bytes.Buffer
		view bytes.Buffer
	)

	BeforeEach(func() {
		out.Reset()
		view.Reset()
		var err error
		m, err = interpreter.New("++ comment\n>+.", []byte("ab"), &out)
		Expect(err).NotTo(HaveOccurred())
	})

	It("should step over comments one instruction at a time", func() {
		d := interpreter.NewDebugger(m, &view, &scriptedPrompt{lines: []string{"", "s 2", "q"}})
		Expect(d.Run(context.Background())).To(Succeed())
		Expect(m.State().Steps).To(Equal(uint64(3)))
		Expect(m.State().Pointer).To(Equal(1))
		Expect(m.Halted()).To(BeFalse())
	})

	It("should continue to the end", func() {
		d := interpreter.NewDebugger(m, &view, &scriptedPrompt{lines: []string{"c"}})
		Expect(d.Run(context.Background())).To(Succeed())
		Expect(m.Halted()).To(BeTrue())
		Expect(out.Bytes()).To(Equal([]byte{1}))
		Expect(view.String()).To(ContainSubstring("Halted after 5 steps"))
	})

	It("should redraw at the requested frequency", func() {
		d := interpreter.NewDebugger(m, &view, &scriptedPrompt{lines: []string{"f 2"}})
		Expect(d.Run(context.Background())).To(Succeed())
		Expect(m.Halted()).To(BeTrue())
		Expect(view.String()).To(ContainSubstring("Update frequency: 1/2 updates displayed"))
	})

	It("should stop when input ends", func() {
		d := interpreter.NewDebugger(m, &view, &scriptedPrompt{})
		Expect(d.Run(context.Background())).To(Succeed())
		Expect(m.State().Steps).To(BeZero())
	})

	It("should report bad commands without stepping", func() {
		d := interpreter.NewDebugger(m, &view, &scriptedPrompt{lines: []string{"x", "s zero", "f", "q"}})
		Expect(d.Run(context.Background())).To(Succeed())
		Expect(view.String()).To(ContainSubstring(`unknown command "x"`))
		Expect(view.String()).To(ContainSubstring(`invalid step count "zero"`))
		Expect(view.String()).To(ContainSubstring("usage: f <n>"))
		Expect(m.State().Steps).To(BeZero())
	})

	It("should render every region", func() {
		d := interpreter.NewDebugger(m, &view, &scriptedPrompt{})
		d.Width = 30
		Expect(m.Step()).To(Succeed())

		rendered := d.Render()
		Expect(rendered).To(ContainSubstring("Input:\nab\n^"))
		Expect(rendered).To(ContainSubstring("Pos: 1"))
		Expect(rendered).To(ContainSubstring("*0"))
		Expect(rendered).To(ContainSubstring("Pointer: 0"))
		Expect(rendered).To(ContainSubstring("Code:\n++ comment >+.\n ^"))
	})
})
