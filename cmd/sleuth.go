/*
Copyright © 2024 Ryan Painter paintersrp@gmail.com

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Paintersrp/sleuth/pkg/cmd/root"
	"github.com/Paintersrp/sleuth/pkg/shared/app"
)

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	a := app.New()
	rootCmd := root.NewCmdRoot(a)

	execErr := rootCmd.ExecuteContext(ctx)
	closeErr := a.Close()
	stop()

	if execErr != nil || closeErr != nil {
		os.Exit(1)
	}
}
