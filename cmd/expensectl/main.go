package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"expense/client"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const usage = `用法: expensectl [-addr URL] <命令> [参数]

命令:
  list                         列出全部消费记录
  add -d 描述 -a 金额 [-c 类别]  新增消费记录
  rm <id>                      删除消费记录
  categories                   列出可选类别
`

func main() {
	_ = godotenv.Load()

	defaultAddr := os.Getenv("EXPENSE_API_URL")
	if defaultAddr == "" {
		defaultAddr = "http://localhost:3000"
	}

	fs := flag.NewFlagSet("expensectl", flag.ExitOnError)
	addr := fs.String("addr", defaultAddr, "服务端地址")
	timeout := fs.Duration("timeout", 15*time.Second, "请求超时时间")
	fs.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	_ = fs.Parse(os.Args[1:])

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	state := client.NewState(client.NewAPI(*addr, nil))
	if err := run(ctx, state, fs.Args(), os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "错误:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, state *client.State, args []string, out io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(out, usage)
		return errors.New("缺少命令")
	}

	switch args[0] {
	case "list", "ls":
		return list(ctx, state, out)
	case "add":
		return add(ctx, state, args[1:], out)
	case "rm", "delete":
		return remove(ctx, state, args[1:], out)
	case "categories":
		if err := state.LoadCategories(ctx); err != nil {
			return failure(state, err)
		}
		for _, c := range state.Snapshot().Categories {
			fmt.Fprintln(out, c)
		}
		return nil
	default:
		fmt.Fprint(out, usage)
		return fmt.Errorf("未知命令: %s", args[0])
	}
}

func list(ctx context.Context, state *client.State, out io.Writer) error {
	if err := state.Load(ctx); err != nil {
		return failure(state, err)
	}

	snap := state.Snapshot()
	total := decimal.Zero
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDESCRIPTION\tAMOUNT\tCATEGORY")
	for _, e := range snap.Expenses {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", e.ID, e.Description, client.FormatAmount(e.Amount), e.Category)
		total = total.Add(decimal.NewFromFloat(e.Amount))
	}
	fmt.Fprintf(w, "\tTotal\t%s\t\n", total.StringFixed(2))
	return w.Flush()
}

func add(ctx context.Context, state *client.State, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.SetOutput(out)
	description := fs.String("d", "", "描述")
	amount := fs.String("a", "", "金额，如 3.50")
	category := fs.String("c", "", "类别，默认为第一个可选类别")
	if err := fs.Parse(args); err != nil {
		return err
	}

	// 类别以服务端为准，获取失败时使用内置选项
	_ = state.LoadCategories(ctx)

	state.SetDescription(*description)
	state.SetAmount(*amount)
	if *category != "" && !state.SetCategory(*category) {
		return fmt.Errorf("类别必须是以下之一: %s", strings.Join(state.Snapshot().Categories, ", "))
	}

	if err := state.Submit(ctx); err != nil {
		return failure(state, err)
	}

	snap := state.Snapshot()
	e := snap.Expenses[len(snap.Expenses)-1]
	fmt.Fprintf(out, "已添加 #%d %s %s (%s)\n", e.ID, e.Description, client.FormatAmount(e.Amount), e.Category)
	return nil
}

func remove(ctx context.Context, state *client.State, args []string, out io.Writer) error {
	if len(args) != 1 {
		return errors.New("用法: expensectl rm <id>")
	}
	id, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return fmt.Errorf("无效的 id: %s", args[0])
	}

	if err := state.Delete(ctx, uint(id)); err != nil {
		return failure(state, err)
	}
	fmt.Fprintf(out, "已删除 #%d\n", id)
	return nil
}

// failure 优先返回界面上展示的错误信息
func failure(state *client.State, err error) error {
	if msg := state.Err(); msg != "" {
		return fmt.Errorf("%s (%w)", msg, err)
	}
	return err
}
