// Copyright 2020 Qiniu Cloud (qiniu.com)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"flag"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jasonlvhit/gocron"
	"github.com/qiniu/x/log"

	"github.com/vantoan19/CodeToGive-backend/internal/common/utils"
	"github.com/vantoan19/CodeToGive-backend/internal/service/web"
)

var (
	configFilePath = "quiz-cube.conf"
)

func main() {
	flag.StringVar(&configFilePath, "f", configFilePath, "configuration file to run quiz-cube server")
	flag.Parse()

	utils.InitConf(configFilePath)
	log.SetOutputLevel(utils.DefaultConf.DebugLevel)
	rand.Seed(time.Now().UnixNano())

	backend, err := web.NewBackend(&utils.DefaultConf)
	if err != nil {
		log.Fatalf("failed to create backend, error %v", err)
	}

	// 启动定时任务
	go func() {
		interval := utils.DefaultConf.ReconcileIntervalMinute
		if interval <= 0 {
			log.Info("reconcile task disabled")
			return
		}
		reconcileTask := backend.ReconcileTask()
		_ = gocron.Every(uint64(interval)).Minutes().Do(reconcileTask.Start)
		<-gocron.Start()
	}()
	// 启动 gin HTTP server。
	r := web.NewRouter(backend)

	errch := make(chan error, 1)
	go func() {
		httpServerErr := r.Run(utils.DefaultConf.ListenAddr)
		errch <- httpServerErr
	}()

	qC := make(chan os.Signal, 1)
	signal.Notify(qC, syscall.SIGINT, syscall.SIGTERM)
	select {
	case s := <-qC:
		log.Info(s.String())
	case err = <-errch:
		log.Error("http server stopped, error", err.Error())
	}
}
