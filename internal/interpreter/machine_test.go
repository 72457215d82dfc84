package interpreter_test

import (
	"bytes"
	"context"
	"errors"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"martianoff/bfgo/bferr"
	"martianoff/bfgo/internal/interpreter"
	"martianoff/bfgo/internal/policy"
)

func run(code, input string, p policy.Policies) ([]byte, error) {
	var out bytes.Buffer
	m, err := interpreter.New(code, []byte(input), &out, interpreter.WithPolicies(p))
	if err != nil {
		return nil, err
	}
	err = m.Run(context.Background())
	return out.Bytes(), err
}

var _ = Describe("Machine", func() {
	var p policy.Policies

	BeforeEach(func() {
		p = policy.Default()
	})

	Describe("basic programs", func() {
		It("should increment and write", func() {
			out, err := run("+++.", "", p)
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal([]byte{3}))
		})

		It("should echo input", func() {
			out, err := run(",.,.", "hi", p)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(out)).To(Equal("hi"))
		})

		It("should multiply in a loop", func() {
			out, err := run("+++[>+++<-]>.", "", p)
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal([]byte{9}))
		})

		It("should print hello world", func() {
			hello := "++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]>>.>---.+++++++..+++.>>.<-.<.+++.------.--------.>>+.>++."
			out, err := run(hello, "", p)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(out)).To(Equal("Hello World!\n"))
		})

		It("should ignore comment characters", func() {
			out, err := run("add three + + + then print .", "", p)
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal([]byte{3}))
		})
	})

	Describe("loops", func() {
		It("should skip a loop whose cell starts at zero", func() {
			out, err := run("[+.]+.", "", p)
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal([]byte{1}))
		})

		It("should skip an empty loop", func() {
			out, err := run("[].", "", p)
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal([]byte{0}))
		})

		DescribeTable("clearing a cell",
			func(prefix string) {
				out, err := run(prefix+"[-].", "", p)
				Expect(err).NotTo(HaveOccurred())
				Expect(out).To(Equal([]byte{0}))
			},
			Entry("from 0", ""),
			Entry("from 1", "+"),
			Entry("from 255", "-"),
		)

		It("should reject unbalanced brackets with a position", func() {
			_, err := run("+\n+]", "", p)
			var be *bferr.BracketError
			Expect(errors.As(err, &be)).To(BeTrue())
			Expect(be.Line).To(Equal(2))
			Expect(be.Column).To(Equal(2))
		})
	})

	Describe("pointer policies", func() {
		BeforeEach(func() {
			p.MemorySize = 4
		})

		It("should wrap", func() {
			p.PointerSafety = policy.PointerWrap
			out, err := run("<+.>>>>.", "", p)
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal([]byte{1, 1}))
		})

		It("should clamp", func() {
			p.PointerSafety = policy.PointerClamp
			out, err := run("<<+>>>>>>+.", "", p)
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal([]byte{1}))
		})

		It("should fault on out of range access when unchecked", func() {
			_, err := run(">>>>+", "", p)
			Expect(bferr.IsType(err, bferr.TypeRuntime)).To(BeTrue())

			var re *bferr.RuntimeError
			Expect(errors.As(err, &re)).To(BeTrue())
			Expect(re.Pointer).To(Equal(4))
			Expect(re.CodePos).To(Equal(4))
		})

		It("should allow moving out of range without access", func() {
			_, err := run("<>+", "", p)
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("cell policies", func() {
		It("should wrap by default", func() {
			out, err := run("-.", "", p)
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal([]byte{255}))
		})

		It("should abort on overflow", func() {
			p.Overflow = policy.OverflowAbort
			_, err := run(strings.Repeat("+", 256), "", p)
			Expect(err).To(MatchError(ContainSubstring("cell overflow")))
		})

		It("should abort on underflow", func() {
			p.Overflow = policy.OverflowAbort
			_, err := run("-", "", p)
			Expect(err).To(MatchError(ContainSubstring("cell underflow")))
		})

		It("should honor the cell width", func() {
			p.CellSize = policy.Cell16
			m, err := interpreter.New(strings.Repeat("+", 300), nil, &bytes.Buffer{}, interpreter.WithPolicies(p))
			Expect(err).NotTo(HaveOccurred())
			Expect(m.Run(context.Background())).To(Succeed())
			Expect(m.Cell(0)).To(Equal(uint32(300)))
		})

		It("should write the low byte of wide cells", func() {
			p.CellSize = policy.Cell16
			out, err := run(strings.Repeat("+", 257)+".", "", p)
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal([]byte{1}))
		})
	})

	Describe("input", func() {
		It("should leave the cell unchanged at EOF by default", func() {
			out, err := run("+++,.", "", p)
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal([]byte{3}))
		})

		It("should store the fixed EOF value", func() {
			p.EOF = policy.FixedEOF(0)
			out, err := run("+++,.", "", p)
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal([]byte{0}))
		})

		It("should reject non-ASCII input", func() {
			_, err := interpreter.New(",", []byte("é"), &bytes.Buffer{})
			Expect(bferr.IsType(err, bferr.TypeEncoding)).To(BeTrue())
		})
	})

	Describe("stepping", func() {
		It("should expose state between steps", func() {
			m, err := interpreter.New("+>+", nil, &bytes.Buffer{})
			Expect(err).NotTo(HaveOccurred())

			Expect(m.Step()).To(Succeed())
			Expect(m.State()).To(Equal(interpreter.State{PC: 1, Steps: 1}))
			Expect(m.Step()).To(Succeed())
			Expect(m.State().Pointer).To(Equal(1))
			Expect(m.Step()).To(Succeed())
			Expect(m.Halted()).To(BeTrue())
			Expect(m.Step()).To(Succeed())
			Expect(m.State().Steps).To(Equal(uint64(3)))
		})

		It("should stop on a cancelled context", func() {
			m, err := interpreter.New("+[]", nil, &bytes.Buffer{})
			Expect(err).NotTo(HaveOccurred())

			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			Expect(m.Run(ctx)).To(MatchError(context.Canceled))
		})
	})
})
