package main

import (
	"strconv"

	"ast3wart/clutchcam-api/api"
	"ast3wart/clutchcam-api/config"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	gin.SetMode(gin.ReleaseMode)

	err := config.Setup()
	if err != nil {
		panic(err)
	}

	a, err := api.NewRouter()
	if err != nil {
		panic(err)
	}

	zap.L().Info("Server starting",
		zap.Int("port", viper.GetInt("host.port")),
		zap.String("inputs", viper.GetString("storage.input_dir")),
		zap.String("outputs", viper.GetString("storage.output_dir")))

	err = a.Router.Run(":" + strconv.Itoa(viper.GetInt("host.port")))
	if err != nil {
		panic(err)
	}
}
