// This file is part of MinIO ext2sb
// Copyright (c) 2022 MinIO, Inc.
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/minio/ext2sb/pkg/consts"
	"github.com/minio/ext2sb/pkg/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"k8s.io/klog/v2"
)

// Version of this application populated by `go build`
// e.g. $ go build -ldflags="-X main.Version=v1.0.0"
var Version string

var mainCmd = &cobra.Command{
	Use:           consts.AppName,
	Short:         "Inspect the superblock of ext2 filesystem images.",
	SilenceUsage:  true,
	SilenceErrors: true,
	Version:       Version,
}

func init() {
	// Assigned here rather than in the literal to avoid an initialization
	// cycle (mainCmd -> loadConfig -> mainCmd).
	mainCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return loadConfig()
	}

	if Version == "" {
		mainCmd.Version = "0.0.0-dev"
	}

	viper.SetEnvPrefix(consts.AppCapsName)
	viper.AutomaticEnv()

	kflags := flag.NewFlagSet("klog", flag.ExitOnError)
	klog.InitFlags(kflags)

	mainCmd.PersistentFlags().AddGoFlagSet(kflags)

	flag.Set("logtostderr", "true")
	flag.Set("alsologtostderr", "true")

	addGlobalFlags(mainCmd)

	mainCmd.PersistentFlags().MarkHidden("alsologtostderr")
	mainCmd.PersistentFlags().MarkHidden("add_dir_header")
	mainCmd.PersistentFlags().MarkHidden("log_file")
	mainCmd.PersistentFlags().MarkHidden("log_file_max_size")
	mainCmd.PersistentFlags().MarkHidden("one_output")
	mainCmd.PersistentFlags().MarkHidden("skip_headers")
	mainCmd.PersistentFlags().MarkHidden("skip_log_headers")
	mainCmd.PersistentFlags().MarkHidden("log_backtrace_at")
	mainCmd.PersistentFlags().MarkHidden("log_dir")
	mainCmd.PersistentFlags().MarkHidden("logtostderr")
	mainCmd.PersistentFlags().MarkHidden("stderrthreshold")
	mainCmd.PersistentFlags().MarkHidden("vmodule")

	// suppress the incorrect prefix in glog output
	flag.CommandLine.Parse([]string{})
	viper.BindPFlags(mainCmd.PersistentFlags())

	mainCmd.AddCommand(showCmd)
	mainCmd.AddCommand(checkCmd)
	mainCmd.AddCommand(scanCmd)
	mainCmd.AddCommand(serveCmd)
}

// loadConfig reads the configuration file, if any, into viper.
func loadConfig() error {
	configFile, err := utils.ExpandPath(viper.GetString("config"))
	if err != nil {
		return err
	}
	if configFile == "" {
		return nil
	}

	viper.SetConfigFile(configFile)
	if err := viper.ReadInConfig(); err != nil {
		if errors.Is(err, os.ErrNotExist) && !mainCmd.PersistentFlags().Changed("config") {
			return nil
		}
		return err
	}
	klog.V(3).InfoS("loaded configuration", "file", configFile)
	return nil
}

func main() {
	ctx, cancelFunc := context.WithCancel(context.Background())

	// We must use a buffered channel or risk missing the signal
	// if we're not ready to receive when the signal is sent.
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case signal := <-signalCh:
			utils.Eprintf(quietFlag(), false, "\nExiting on signal %v\n", signal)
			cancelFunc()
		case <-ctx.Done():
		}
	}()

	if err := mainCmd.ExecuteContext(ctx); err != nil {
		utils.Eprintf(quietFlag(), true, "%v\n", err)
		os.Exit(1)
	}
}
