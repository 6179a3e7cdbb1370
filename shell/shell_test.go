package shell_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/oslab/shell"
)

type fixedRand int

func (r fixedRand) IntN(int) int { return int(r) }

var _ = Describe("Shell", func() {
	var (
		sh *shell.Shell
	)

	BeforeEach(func() {
		sh = shell.New(fixedRand(4))
	})

	It("should echo the command with the prompt", func() {
		lines := sh.Execute("whoami")

		Expect(lines[0]).To(Equal(shell.Line{
			Kind:    shell.LineInput,
			Content: shell.Prompt + "whoami",
		}))
		Expect(lines).To(HaveLen(2))
		Expect(sh.History).To(HaveLen(4))
	})

	It("should list the commands", func() {
		lines := sh.Execute("  HELP ")

		Expect(lines[1].Content).To(
			Equal("Available: clear, fork, help, ls, ps, whoami"))
	})

	It("should fork children of init", func() {
		lines := sh.Execute("fork")
		Expect(lines[1].Content).To(ContainSubstring("106"))

		sh.Execute("fork")

		Expect(sh.Procs).To(Equal([]shell.Proc{
			{PID: 101, PPID: 0, Name: "init"},
			{PID: 106, PPID: 101, Name: "child_proc"},
			{PID: 111, PPID: 101, Name: "child_proc"},
		}))
	})

	It("should print the process table", func() {
		sh.Execute("fork")

		lines := sh.Execute("ps")

		Expect(lines[1:]).To(Equal([]shell.Line{
			{Kind: shell.LineOutput, Content: "PID\tPPID\tCMD"},
			{Kind: shell.LineOutput, Content: "101\t0\tinit"},
			{Kind: shell.LineOutput, Content: "106\t101\tchild_proc"},
		}))
	})

	It("should clear the history", func() {
		Expect(sh.Execute("clear")).To(BeEmpty())
		Expect(sh.History).To(BeEmpty())
	})

	It("should report unknown commands", func() {
		lines := sh.Execute("rm -rf /")

		Expect(lines[1].Content).To(Equal("sh: command not found: rm -rf /"))
	})

	It("should only echo an empty line", func() {
		lines := sh.Execute("")

		Expect(lines).To(Equal([]shell.Line{
			{Kind: shell.LineInput, Content: shell.Prompt},
		}))
	})
})
