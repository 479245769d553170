package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tarstars/gini_tree/golang/gini_tree/gtl"
	"gopkg.in/yaml.v3"
)

func handleError(err error) {
	if err != nil {
		log.Fatal().Err(err).Msg("gini_tree failed")
	}
}

func decodeConfig(srcConfig string, out interface{}) error {
	file, err := os.Open(srcConfig)
	if err != nil {
		return err
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", srcConfig, err)
	}
	return nil
}

type TestConfig struct {
	Description         string `yaml:"description"`
	FileNameTestFeature string `yaml:"filename_test_features"`
	FileNameTestLabels  string `yaml:"filename_test_labels"`
}

type TrainConfig struct {
	FileNameTrainFeatures string       `yaml:"filename_train_features"`
	FileNameTrainLabels   string       `yaml:"filename_train_labels"`
	Tests                 []TestConfig `yaml:"tests"`
	MaxDepth              int          `yaml:"max_depth"`
}

//trainModel loads the train set and the monitors described by the config and fits a tree.
func trainModel(trainConfig TrainConfig) (*gtl.Model, error) {
	log.Info().Str("features", trainConfig.FileNameTrainFeatures).Msg("load train")
	dsTrain, err := gtl.ReadDataSet(trainConfig.FileNameTrainFeatures, trainConfig.FileNameTrainLabels)
	if err != nil {
		return nil, err
	}
	dsTrain.SetDescription("train")

	monitors := []*gtl.DataSet{dsTrain}
	for _, testConfig := range trainConfig.Tests {
		log.Info().Str("features", testConfig.FileNameTestFeature).Msg("load test")
		ds, err := gtl.ReadDataSet(testConfig.FileNameTestFeature, testConfig.FileNameTestLabels)
		if err != nil {
			return nil, err
		}
		ds.SetDescription(testConfig.Description)
		monitors = append(monitors, ds)
	}

	return gtl.NewModel(gtl.ModelParams{
		DataSet:  dsTrain,
		MaxDepth: trainConfig.MaxDepth,
		Monitors: monitors,
		Logger:   &log.Logger,
	})
}

func train(srcConfig string) {
	var trainConfig TrainConfig
	handleError(decodeConfig(srcConfig, &trainConfig))

	clf, err := trainModel(trainConfig)
	handleError(err)
	log.Info().Int("depth", clf.Depth()).Int("leaves", clf.NumLeaves()).Msg("trained")
}

type PredictConfig struct {
	TrainConfig        `yaml:",inline"`
	FeaturesFileName   string `yaml:"filename_features"`
	PredictionFileName string `yaml:"filename_prediction"`
}

func predict(srcConfig string) {
	var predictConfig PredictConfig
	handleError(decodeConfig(srcConfig, &predictConfig))

	clf, err := trainModel(predictConfig.TrainConfig)
	handleError(err)

	features, err := gtl.ReadNpy(predictConfig.FeaturesFileName)
	handleError(err)

	prediction, err := clf.PredictDense(features)
	handleError(err)
	handleError(gtl.WriteNpy(predictConfig.PredictionFileName, prediction))
	log.Info().Str("file", predictConfig.PredictionFileName).Msg("prediction is written")
}

type GraphConfig struct {
	TrainConfig       `yaml:",inline"`
	FigureType        string `yaml:"figure_type"`
	PicturesDirectory string `yaml:"pictures_directory"`
	DumpPrefix        string `yaml:"dump_prefix"`
}

func graph(srcConfig string) {
	var graphConfig GraphConfig
	handleError(decodeConfig(srcConfig, &graphConfig))

	clf, err := trainModel(graphConfig.TrainConfig)
	handleError(err)

	filename, err := clf.RenderTree(graphConfig.DumpPrefix, graphConfig.FigureType, graphConfig.PicturesDirectory)
	handleError(err)
	log.Info().Str("file", filename).Msg("tree is rendered")
}

//demo trains on the built-in astronaut data set and classifies a 40 years old who likes dogs and gravity.
func demo(string) {
	// age, likes dogs, likes gravity
	features := []float64{
		24, 0, 0,
		30, 1, 1,
		36, 0, 1,
		36, 0, 0,
		42, 0, 0,
		44, 1, 1,
		46, 1, 0,
		47, 1, 1,
		47, 0, 1,
		51, 1, 1,
	}
	labels := []int{0, 1, 1, 0, 0, 1, 0, 1, 0, 1}

	clf, err := gtl.Fit(features, labels, 10, 3, 3)
	handleError(err)

	prediction, err := clf.Predict([]float64{40, 1, 1})
	handleError(err)
	fmt.Println("Prediction:", prediction)
}

func main() {
	runMode := flag.String("mode", "demo", "you can select either 'train', 'predict', 'graph' or 'demo' modes")
	config := flag.String("config", "gini_tree_config.yaml", "a config file for the run of the program")
	logLevel := flag.String("log-level", "info", "zerolog level: debug, info, warn, error")
	memprofile := flag.String("memprofile", "", "write memory profile to `file`")

	flag.Parse()

	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	modes := map[string]func(string){
		"train":   train,
		"predict": predict,
		"graph":   graph,
		"demo":    demo,
	}
	mode, ok := modes[*runMode]
	if !ok {
		log.Fatal().Str("mode", *runMode).Msg("unknown mode")
	}
	mode(*config)

	if *memprofile != "" {
		f, err := os.Create(*memprofile)
		handleError(err)
		defer f.Close()
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.Fatal().Err(err).Msg("could not write memory profile")
		}
	}
}
