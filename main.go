package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/UMCSCOI/Backend-sub000/internal/app"
	"github.com/UMCSCOI/Backend-sub000/internal/types"
	"github.com/UMCSCOI/Backend-sub000/pkg/utils"
)

var (
	configPath = flag.String("config", "./config/config.yaml", "配置文件路径")
	version    = flag.Bool("version", false, "显示版本信息")
	help       = flag.Bool("help", false, "显示帮助信息")

	opName   = flag.String("op", "remittance", "操作: remittance|topup|detail|fiat-balance")
	userID   = flag.String("user", "", "用户ID")
	exchange = flag.String("exchange", "upbit", "交易所: upbit|bithumb|korbit")
	txType   = flag.String("type", "all", "类型过滤: deposit|withdraw|all 或 charge|cash-exchange|all")
	state    = flag.String("state", "done", "订单状态: wait|done|cancel")
	period   = flag.String("period", "1mo", "查询周期: today|1mo|3mo|6mo")
	order    = flag.String("order", "desc", "排序: asc|desc")
	limit    = flag.Int("limit", 20, "返回条数（上限100）")
	category = flag.String("category", "remittance", "明细类别: remittance|topup")
	recordID = flag.String("id", "", "明细记录ID")
	currency = flag.String("currency", "", "明细币种")
)

func main() {
	// 解析命令行参数
	if shouldExit := parseFlags(); shouldExit {
		return
	}

	// 加载配置
	config, err := utils.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("wallet aggregator配置加载失败: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	logger, err := initLogger(config.App.LogLevel)
	if err != nil {
		fmt.Printf("wallet aggregator日志初始化失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("启动交易所钱包聚合器",
		zap.String("name", config.App.Name),
		zap.String("version", config.App.Version))

	// 初始化系统组件
	components, err := app.NewSystemInitializer(logger, config).InitializeSystem()
	if err != nil {
		logger.Fatal("wallet aggregator系统初始化失败", zap.Error(err))
	}
	defer func() {
		if err := components.Shutdown(); err != nil {
			logger.Error("关闭系统组件失败", zap.Error(err))
		}
	}()

	// 收到退出信号时取消请求上下文，调度器在迭代间感知取消
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := runOperation(ctx, components); err != nil {
		logger.Error("wallet aggregator查询失败", zap.Error(err))
		os.Exit(1)
	}
}

// runOperation 执行指定的查询操作并输出规范化结果
func runOperation(ctx context.Context, components *app.SystemComponents) error {
	ex, err := types.ParseExchange(*exchange)
	if err != nil {
		return err
	}
	p, err := types.ParsePeriod(*period)
	if err != nil {
		return err
	}
	o, err := types.ParseSortOrder(*order)
	if err != nil {
		return err
	}

	svc := components.Service
	var result interface{}

	switch *opName {
	case "remittance":
		filter, err := types.ParseTxTypeFilter(*txType)
		if err != nil {
			return err
		}
		result, err = svc.ListRemittanceTransactions(ctx, *userID, ex, filter, p, o, *limit)
		if err != nil {
			return err
		}

	case "topup":
		filter, err := types.ParseTopupFilter(*txType)
		if err != nil {
			return err
		}
		st, err := types.ParseOrderState(*state)
		if err != nil {
			return err
		}
		result, err = svc.ListTopupTransactions(ctx, *userID, ex, filter, st, p, o, *limit)
		if err != nil {
			return err
		}

	case "detail":
		cat, err := types.ParseDetailCategory(*category)
		if err != nil {
			return err
		}
		result, err = svc.GetTransactionDetail(ctx, *userID, ex, cat,
			types.TxTypeFilter(*txType), *recordID, *currency)
		if err != nil {
			return err
		}

	case "fiat-balance":
		result, err = svc.GetFiatBalance(ctx, *userID, ex)
		if err != nil {
			return err
		}

	default:
		return fmt.Errorf("不支持的操作: %s", *opName)
	}

	return printResult(result)
}

// printResult 以JSON输出查询结果
func printResult(result interface{}) error {
	data, err := sonic.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化结果失败: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// initLogger 初始化日志配置
func initLogger(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapLevel)
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}
	config.Encoding = "console"
	config.EncoderConfig.TimeKey = "time"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return config.Build()
}

// parseFlags 解析命令行参数
func parseFlags() bool {
	flag.Parse()

	if *help {
		showHelp()
		return true
	}

	if *version {
		showVersion()
		return true
	}
	return false
}

// showHelp 显示帮助信息
func showHelp() {
	fmt.Println("交易所钱包聚合器")
	fmt.Println()
	fmt.Println("用法:")
	fmt.Println("  wallet-aggregator [选项]")
	fmt.Println()
	fmt.Println("选项:")
	fmt.Println("  -config string")
	fmt.Println("        配置文件路径 (默认 \"./config/config.yaml\")")
	fmt.Println("  -op string")
	fmt.Println("        操作: remittance|topup|detail|fiat-balance (默认 \"remittance\")")
	fmt.Println("  -user string")
	fmt.Println("        用户ID")
	fmt.Println("  -exchange string")
	fmt.Println("        交易所: upbit|bithumb|korbit (默认 \"upbit\")")
	fmt.Println("  -type string")
	fmt.Println("        类型过滤 (默认 \"all\")")
	fmt.Println("  -period string")
	fmt.Println("        查询周期: today|1mo|3mo|6mo (默认 \"1mo\")")
	fmt.Println("  -order string")
	fmt.Println("        排序: asc|desc (默认 \"desc\")")
	fmt.Println("  -limit int")
	fmt.Println("        返回条数，上限100 (默认 20)")
	fmt.Println("  -version")
	fmt.Println("        显示版本信息")
	fmt.Println("  -help")
	fmt.Println("        显示此帮助信息")
}

// showVersion 显示版本信息
func showVersion() {
	fmt.Println("交易所钱包聚合器 v1.0.0")
}
