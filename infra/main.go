package main

import (
	"github.com/pulumi/pulumi-docker/sdk/v4/go/docker"
	"github.com/pulumi/pulumi-gcp/sdk/v8/go/gcp/cloudrun"
	"github.com/pulumi/pulumi-gcp/sdk/v8/go/gcp/storage"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi/config"
)

const (
	indexObject   = "index.html"
	serviceName   = "demo-app"
	containerPort = 8080
)

// siteConfig is the stack configuration
type siteConfig struct {
	Site     string
	Project  string
	Location string
}

// deployment holds the resources whose outputs are exported
type deployment struct {
	Bucket  *storage.Bucket
	Service *cloudrun.Service
}

func loadSiteConfig(ctx *pulumi.Context) siteConfig {
	cfg := config.New(ctx, "")
	return siteConfig{
		Site:     cfg.Require("site"),
		Project:  cfg.Require("project"),
		Location: cfg.Require("location"),
	}
}

// provision declares the bucket, its index object, the server image, the
// Cloud Run service and the public invoker binding.
func provision(ctx *pulumi.Context, sc siteConfig) (*deployment, error) {
	bucket, err := storage.NewBucket(ctx, "app-bucket", &storage.BucketArgs{
		Location: pulumi.String(sc.Location),
	})
	if err != nil {
		return nil, err
	}

	_, err = storage.NewBucketObject(ctx, "site", &storage.BucketObjectArgs{
		Bucket: bucket.Name,
		Name:   pulumi.String(indexObject),
		Source: pulumi.NewFileAsset(sc.Site),
	})
	if err != nil {
		return nil, err
	}

	image, err := docker.NewImage(ctx, "image", &docker.ImageArgs{
		ImageName: pulumi.Sprintf("gcr.io/%s/site", sc.Project),
		Build: &docker.DockerBuildArgs{
			Context:  pulumi.String(".."),
			Platform: pulumi.String("linux/amd64"),
		},
	})
	if err != nil {
		return nil, err
	}

	service, err := cloudrun.NewService(ctx, "service", &cloudrun.ServiceArgs{
		Location: pulumi.String(sc.Location),
		Name:     pulumi.String(serviceName),
		Template: &cloudrun.ServiceTemplateArgs{
			Spec: &cloudrun.ServiceTemplateSpecArgs{
				ContainerConcurrency: pulumi.Int(50),
				Containers: cloudrun.ServiceTemplateSpecContainerArray{
					&cloudrun.ServiceTemplateSpecContainerArgs{
						Image: image.ImageName,
						Resources: &cloudrun.ServiceTemplateSpecContainerResourcesArgs{
							Limits: pulumi.StringMap{
								"memory": pulumi.String("1Gi"),
								"cpu":    pulumi.String("1"),
							},
						},
						Ports: cloudrun.ServiceTemplateSpecContainerPortArray{
							&cloudrun.ServiceTemplateSpecContainerPortArgs{
								ContainerPort: pulumi.Int(containerPort),
							},
						},
						Envs: cloudrun.ServiceTemplateSpecContainerEnvArray{
							&cloudrun.ServiceTemplateSpecContainerEnvArgs{
								Name:  pulumi.String("SERVER_PORT"),
								Value: pulumi.Sprintf("%d", containerPort),
							},
							&cloudrun.ServiceTemplateSpecContainerEnvArgs{
								Name:  pulumi.String("CLOUD_STORAGE_BUCKET"),
								Value: bucket.Name,
							},
						},
					},
				},
			},
		},
	})
	if err != nil {
		return nil, err
	}

	_, err = cloudrun.NewIamMember(ctx, "invoker", &cloudrun.IamMemberArgs{
		Location: pulumi.String(sc.Location),
		Service:  service.Name,
		Role:     pulumi.String("roles/run.invoker"),
		Member:   pulumi.String("allUsers"),
	})
	if err != nil {
		return nil, err
	}

	return &deployment{Bucket: bucket, Service: service}, nil
}

// serviceURL is the URL Cloud Run assigned to the service
func serviceURL(service *cloudrun.Service) pulumi.StringOutput {
	return service.Statuses.ApplyT(func(statuses []cloudrun.ServiceStatus) string {
		if len(statuses) == 0 || statuses[0].Url == nil {
			return ""
		}
		return *statuses[0].Url
	}).(pulumi.StringOutput)
}

func main() {
	pulumi.Run(func(ctx *pulumi.Context) error {
		d, err := provision(ctx, loadSiteConfig(ctx))
		if err != nil {
			return err
		}
		ctx.Export("bucket_name", d.Bucket.Url)
		ctx.Export("service_url", serviceURL(d.Service))
		return nil
	})
}
