package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/hashicorp/logutils"

	cc "github.com/baileyforrest/ccgo"
)

// multiFlag collects a repeatable string flag (-I dir -I dir2) in order.
type multiFlag []string

func (m *multiFlag) String() string { return fmt.Sprint([]string(*m)) }

func (m *multiFlag) Set(v string) error {
	*m = append(*m, v)
	return nil
}

type args struct {
	output *string

	includeDirs multiFlag
	defines     multiFlag
	undefines   multiFlag

	wall   *bool
	wextra *bool
	werror *bool

	optLevel *int
	std      *string

	dumpTokens *bool
	dumpAST    *bool
	dumpPP     *bool

	debug *bool
}

func readArgs() *args {
	a := &args{
		output: flag.String("o", "a.out", "Output path"),

		wall:   flag.Bool("Wall", false, "Enable the standard warning set"),
		wextra: flag.Bool("Wextra", false, "Enable extra warnings"),
		werror: flag.Bool("Werror", false, "Treat warnings as errors"),

		optLevel: flag.Int("O", 0, "Optimization level (parsed only)"),
		std:      flag.String("std", "c11", "Language standard (parsed only)"),

		// Debugging Options

		dumpTokens: flag.Bool("dump_tokens", false, "Dump the lexer's token stream and exit"),
		dumpAST:    flag.Bool("dump_ast", false, "Dump the parsed AST and exit"),
		dumpPP:     flag.Bool("dump_pp", false, "Dump the preprocessed source and exit"),

		debug: flag.Bool("d", false, "print debugging output"),
	}
	flag.Var(&a.includeDirs, "I", "Add a directory to the include search path (repeatable)")
	flag.Var(&a.defines, "D", "Predefine a macro, NAME or NAME=VALUE (repeatable)")
	flag.Var(&a.undefines, "U", "Undefine a predefined macro (repeatable)")
	flag.Parse()
	return a
}

func main() {
	a := readArgs()

	filter := &logutils.LevelFilter{
		Levels:   []logutils.LogLevel{"DEBUG", "INFO"},
		MinLevel: logutils.LogLevel("INFO"),
		Writer:   os.Stderr,
	}
	if *a.debug {
		filter.MinLevel = logutils.LogLevel("DEBUG")
	}
	log.SetOutput(filter)
	log.SetFlags(0)

	if flag.NArg() == 0 {
		log.Fatal("ccgo: no input files")
	}

	now := time.Now()
	opts := cc.DefaultOptions()
	opts.IncludeDirs = a.includeDirs
	opts.Defines = a.defines
	opts.Undefines = a.undefines
	opts.Std = *a.std
	opts.WarningsAsErrors = *a.werror
	opts.OptLevel = *a.optLevel
	opts.DumpTokens = *a.dumpTokens
	opts.DumpAST = *a.dumpAST
	opts.DumpPP = *a.dumpPP
	opts.BuildDate = now.Format("Jan _2 2006")
	opts.BuildTime = now.Format("15:04:05")

	reg := cc.NewRegistry(cc.OSLoader{}, opts.IncludeDirs)
	diag := cc.NewStderrReporter(reg.Bytes)
	diag.SetWarningsAsErrors(opts.WarningsAsErrors)

	failed := false
	for _, path := range flag.Args() {
		log.Printf("[DEBUG] compiling %s", path)
		pipeline := cc.NewPipeline(opts, diag, reg)
		if _, err := pipeline.Run(path); err != nil {
			log.Printf("[INFO] %v", err)
			failed = true
		}
	}
	if failed || diag.Failed() {
		os.Exit(1)
	}
}
