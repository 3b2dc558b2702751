package commands

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wonny/rebalancer/internal/assetconfig"
	"github.com/wonny/rebalancer/internal/rebalance"
	"github.com/wonny/rebalancer/internal/session"
)

const interactiveHelp = `Commands:
  set <자산> <금액>     현재 가치 입력 (예: set 주식 1,500,000)
  alloc <자산> <비율>   목표 비율 입력 (예: alloc 채권 30)
  step <자산> <n>       현재 가치를 n 단위만큼 증감
  show                  보고서 다시 출력
  csv <경로>            결과를 CSV로 저장
  reset                 기본값으로 초기화
  help                  도움말
  quit                  종료`

// interactiveCmd represents the interactive command
var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "대화형 리밸런싱 세션",
	Long:  "한 줄씩 입력을 받아 매번 다시 계산합니다.\n\n" + interactiveHelp,
	RunE:  runInteractive,
}

var interactivePlain bool

func init() {
	rootCmd.AddCommand(interactiveCmd)

	interactiveCmd.Flags().BoolVar(&interactivePlain, "plain", false, "마크다운 원문 출력 (터미널 렌더링 안 함)")
}

func runInteractive(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}

	repl := &repl{
		in:      cmd.InOrStdin(),
		out:     cmd.OutOrStdout(),
		catalog: rt.catalog,
		session: session.New(rt.catalog),
		plain:   interactivePlain,
	}
	rt.log.WithField("session", repl.session.ID).Debug("Interactive session started")
	return repl.run()
}

// repl owns the single in-session snapshot and re-evaluates it after every
// input line.
type repl struct {
	in      io.Reader
	out     io.Writer
	catalog *assetconfig.Catalog
	session *session.Session
	plain   bool
}

func (r *repl) run() error {
	PrintHeader(r.out, "자산 포트폴리오 리밸런싱 ("+joinAssets(r.session.Assets)+")")
	fmt.Fprintln(r.out, "help 입력 시 명령어 목록을 표시합니다.")
	if err := r.show(); err != nil {
		return err
	}

	scanner := bufio.NewScanner(r.in)
	for {
		fmt.Fprint(r.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(r.out)
			return scanner.Err()
		}

		quit, err := r.handle(strings.Fields(scanner.Text()))
		if err != nil {
			PrintWarning(r.out, err.Error())
			continue
		}
		if quit {
			return nil
		}
	}
}

// handle executes one command line. It returns true when the loop should end.
func (r *repl) handle(fields []string) (bool, error) {
	if len(fields) == 0 {
		return false, nil
	}

	switch cmd := strings.ToLower(fields[0]); cmd {
	case "quit", "exit", "q":
		return true, nil

	case "help", "?":
		fmt.Fprintln(r.out, interactiveHelp)
		return false, nil

	case "show":
		return false, r.show()

	case "reset":
		r.session.Reset(r.catalog)
		return false, r.show()

	case "set", "alloc":
		if len(fields) < 3 {
			return false, fmt.Errorf("usage: %s <asset> <value>", cmd)
		}
		asset := rebalance.Asset(fields[1])
		raw := strings.Join(fields[2:], "")
		var err error
		if cmd == "set" {
			err = r.session.SetValue(asset, raw)
		} else {
			err = r.session.SetPercent(asset, raw)
		}
		if err != nil {
			return false, err
		}
		return false, r.show()

	case "step":
		if len(fields) != 3 {
			return false, fmt.Errorf("usage: step <asset> <n>")
		}
		n, err := strconv.Atoi(fields[2])
		if err != nil {
			return false, fmt.Errorf("step count must be an integer: %q", fields[2])
		}
		if err := r.session.Step(rebalance.Asset(fields[1]), n); err != nil {
			return false, err
		}
		return false, r.show()

	case "csv":
		if len(fields) != 2 {
			return false, fmt.Errorf("usage: csv <path>")
		}
		plan := r.session.Evaluate()
		if plan.Skipped() {
			return false, fmt.Errorf("calculation skipped, nothing to export")
		}
		if err := writeCSVFile(fields[1], plan.Result); err != nil {
			return false, err
		}
		PrintSuccess(r.out, "CSV saved: "+fields[1])
		return false, nil

	default:
		return false, fmt.Errorf("unknown command %q (help 참고)", fields[0])
	}
}

func (r *repl) show() error {
	return writePlan(r.out, r.session.Evaluate(), r.catalog, r.plain)
}
